// Package bridge exposes the host callback surface of the companion app and
// routes each callback to the session tracker.
package bridge

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/edrp-bridge/internal/journal"
	"github.com/woozymasta/edrp-bridge/internal/tracker"
)

// Bridge receives host callbacks. Callbacks run synchronously; a slow API
// call stalls the calling host callback.
type Bridge struct {
	tracker *tracker.Tracker
}

// New creates a Bridge on top of the tracker.
func New(t *tracker.Tracker) *Bridge {
	return &Bridge{tracker: t}
}

// Tracker returns the underlying session tracker.
func (b *Bridge) Tracker() *tracker.Tracker {
	return b.tracker
}

// OnStart is called when the host loads the bridge.
func (b *Bridge) OnStart() {
	log.Info().Str("source", "EDMarketConnector").Msg("Tracker loaded")
}

// OnStop is called when the host is closing.
func (b *Bridge) OnStop() {
	log.Info().Str("source", "EDMarketConnector").Msg("Tracker closed")
}

// OnPreferenceContextChanged is called when the commander changes while the settings dialog is open.
func (b *Bridge) OnPreferenceContextChanged(cmdr string, isBeta bool) {
	log.Info().
		Str("source", "PrefsCmdrChanged").
		Str("cmdr", cmdr).
		Bool("beta", isBeta).
		Msg("New commander")
}

// OnPreferencesClosed is called when the settings dialog has been closed.
func (b *Bridge) OnPreferencesClosed(cmdr string, isBeta bool) {
	log.Info().
		Str("source", "PrefsChanged").
		Str("cmdr", cmdr).
		Bool("beta", isBeta).
		Msg("Settings dialog has been closed")
}

// OnJournalEntry handles a raw journal entry. The returned error is the
// diagnostic shown by the host; API failures are never returned.
// The host state dictionary is accepted for parity and not used.
func (b *Bridge) OnJournalEntry(
	ctx context.Context,
	cmdr string,
	isBeta bool,
	system, station string,
	entry json.RawMessage,
	_ json.RawMessage,
) (tracker.Report, error) {
	ev, err := journal.Decode(entry)
	if err != nil {
		l := log.Error().Str("source", "JournalEntry").Err(err)
		if json.Valid(entry) {
			l = l.RawJSON("entry", entry)
		}
		l.Msg("Rejected journal entry")

		return tracker.Report{}, err
	}

	hc := journal.Context{Cmdr: cmdr, System: system, Station: station, IsBeta: isBeta}
	return b.tracker.HandleJournal(ctx, hc, ev), nil
}

// OnStatusEntry handles a dashboard status update; it only pings.
func (b *Bridge) OnStatusEntry(ctx context.Context, cmdr string, _ bool, _ json.RawMessage) (tracker.Outcome, error) {
	return b.tracker.Ping(ctx, cmdr), nil
}

// OnRemoteProfile handles the commander profile fetched from the game servers; it only pings.
// A profile without a commander name is ignored.
func (b *Bridge) OnRemoteProfile(ctx context.Context, profile journal.Profile, _ bool) (tracker.Outcome, error) {
	cmdr, ok := profile.CmdrName()
	if !ok {
		log.Debug().Str("source", "CmdrData").Msg("Profile without commander name")
		return tracker.Skipped, nil
	}

	return b.tracker.Ping(ctx, cmdr), nil
}
