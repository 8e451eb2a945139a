package tracker

import (
	"github.com/rs/zerolog"
	"github.com/woozymasta/edrp-bridge/internal/journal"
)

// logLocation writes the human readable line for a location event.
func logLocation(l zerolog.Logger, ev journal.Event) {
	e := l.Info()

	switch ev.Kind {
	case journal.Docked:
		e.Msg("Docked at station")
	case journal.FSDJump:
		if ev.StarPos != nil {
			e = e.Floats64("star_pos", ev.StarPos[:])
		}
		e.Msg("Arrived in system")
	case journal.Liftoff:
		e.Msg("Departed from a planet")
	case journal.Touchdown:
		e.Msg("Landed on a planet")
	case journal.Undocked:
		if ev.StationName != nil {
			e = e.Str("departed", *ev.StationName)
		}
		e.Msg("Undocked from station")
	default:
		e.Msg(ev.String())
	}
}
