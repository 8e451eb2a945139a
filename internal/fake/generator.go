// Package fake provides utilities for replaying random journal events through the bridge
// for testing and development purposes.
package fake

import (
	"context"
	"encoding/json"
	"math/rand"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/edrp-bridge/internal/bridge"
	"github.com/woozymasta/edrp-bridge/internal/tracker"
)

// Summary counts the outcomes of a replay.
type Summary struct {
	Outcomes map[tracker.Outcome]int
	Events   int
	Rejected int
}

// GenerateEvents plays a session of count events for one random commander:
// a LoadGame into group, random travel and chatter events, status ticks and a final ShutDown.
func GenerateEvents(ctx context.Context, b *bridge.Bridge, group string, count int, rnd *rand.Rand) Summary {
	cmdrs := []string{"Jameson", "Salome", "Arcanonn", "Marlin Duval", "Zachary Hudson"}
	systems := []string{"Sol", "Shinrarta Dezhra", "Lave", "Deciat", "Colonia", "Maia"}
	stations := []string{"Galileo", "Jameson Memorial", "Lave Station", "Farseer Inc", "Jaques Station"}
	chatter := []string{"Music", "ReceiveText", "Scan", "FuelScoop", "Cargo", "Friends"}

	sum := Summary{Outcomes: make(map[tracker.Outcome]int)}
	cmdr := cmdrs[rnd.Intn(len(cmdrs))]
	system := systems[rnd.Intn(len(systems))]
	station := stations[rnd.Intn(len(stations))]

	play := func(entry map[string]any) {
		raw, _ := json.Marshal(entry)
		rep, err := b.OnJournalEntry(ctx, cmdr, false, system, station, raw, nil)
		sum.Events++
		if err != nil {
			sum.Rejected++
			return
		}
		for _, c := range rep.Calls {
			sum.Outcomes[c.Outcome]++
		}
	}

	play(map[string]any{"event": "LoadGame", "GameMode": "Group", "Group": group, "Commander": cmdr})

	for i := 2; i < count; i++ {
		switch roll := rnd.Float32(); {
		case roll < 0.15:
			system = systems[rnd.Intn(len(systems))]
			station = ""
			pos := []float64{rnd.Float64() * 100, rnd.Float64() * 100, rnd.Float64() * 100}
			play(map[string]any{"event": "FSDJump", "StarSystem": system, "StarPos": pos})
		case roll < 0.25:
			station = stations[rnd.Intn(len(stations))]
			play(map[string]any{"event": "Docked", "StationName": station})
		case roll < 0.35:
			departed := station
			station = ""
			play(map[string]any{"event": "Undocked", "StationName": departed})
		case roll < 0.40:
			play(map[string]any{"event": "Touchdown"})
		case roll < 0.45:
			play(map[string]any{"event": "Liftoff"})
		case roll < 0.70:
			play(map[string]any{"event": chatter[rnd.Intn(len(chatter))]})
		default:
			outcome, _ := b.OnStatusEntry(ctx, cmdr, false, json.RawMessage(`{"event":"Status"}`))
			sum.Events++
			sum.Outcomes[outcome]++
		}
	}

	if count > 1 {
		play(map[string]any{"event": "ShutDown"})
	}

	log.Info().
		Str("cmdr", cmdr).
		Int("events", sum.Events).
		Int("sent", sum.Outcomes[tracker.Sent]).
		Int("suppressed", sum.Outcomes[tracker.Suppressed]).
		Int("failed", sum.Outcomes[tracker.Failed]).
		Msgf("Replayed %d fake events", sum.Events)

	return sum
}
