// Package tracker implements the session state machine that decides, for every
// game event, whether the commander is in the tracked role-play scope and which
// API markers to forward, throttling heartbeat pings.
package tracker

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/woozymasta/edrp-bridge/internal/journal"
)

const (
	// DefaultPingInterval is the minimal gap between heartbeat markers.
	DefaultPingInterval = 5 * time.Minute

	// DefaultGroup is the private group whose sessions are tracked.
	DefaultGroup = "ED RP"

	// DefaultUnknown is sent in place of a system or station the host does not know.
	DefaultUnknown = "None"

	// groupGameMode is the LoadGame mode of private group sessions.
	groupGameMode = "Group"
)

// Notifier issues the API markers. Each call reports whether the API accepted it.
type Notifier interface {
	NotifyLogon(ctx context.Context, cmdr string) bool
	NotifyLogoff(ctx context.Context, cmdr string) bool
	NotifyStation(ctx context.Context, cmdr, station string) bool
	NotifySystem(ctx context.Context, cmdr, system string) bool
	NotifyPing(ctx context.Context, cmdr string) bool
}

// Options configures a Tracker.
type Options struct {
	// Clock returns the current time, time.Now if nil
	Clock func() time.Time

	// Groups are the private group names tracked, DefaultGroup if empty
	Groups []string

	// Unknown replaces an empty system or station on the wire, DefaultUnknown if empty
	Unknown string

	// PingInterval is the heartbeat rate limit, DefaultPingInterval if zero
	PingInterval time.Duration

	// GroupCaseSensitive compares group names exactly instead of case-insensitively
	GroupCaseSensitive bool
}

// SessionState is a copy of the tracker state.
type SessionState struct {
	// LastHeartbeat is the time of the last accepted heartbeat-class marker, zero if none
	LastHeartbeat time.Time `json:"last_heartbeat"`

	// Tracked is true while the session is within the tracked scope
	Tracked bool `json:"tracked"`
}

// Tracker owns the session state. It is safe for concurrent use; events are
// handled one at a time in arrival order.
type Tracker struct {
	notifier Notifier
	now      func() time.Time

	// groups holds xxhash sums of the tracked group names (upper-cased unless case sensitive)
	groups map[uint64]struct{}

	unknown string

	state SessionState
	mu    sync.Mutex

	pingInterval  time.Duration
	caseSensitive bool
}

// New creates a Tracker in the untracked state.
func New(notifier Notifier, opts Options) *Tracker {
	t := &Tracker{
		notifier:      notifier,
		now:           opts.Clock,
		groups:        make(map[uint64]struct{}),
		unknown:       opts.Unknown,
		pingInterval:  opts.PingInterval,
		caseSensitive: opts.GroupCaseSensitive,
	}

	if t.now == nil {
		t.now = time.Now
	}
	if t.pingInterval <= 0 {
		t.pingInterval = DefaultPingInterval
	}
	if t.unknown == "" {
		t.unknown = DefaultUnknown
	}

	groups := opts.Groups
	if len(groups) == 0 {
		groups = []string{DefaultGroup}
	}
	for _, g := range groups {
		t.groups[t.groupKey(g)] = struct{}{}
	}

	return t
}

// Snapshot returns a copy of the current session state.
func (t *Tracker) Snapshot() SessionState {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.state
}

// PingInterval returns the configured heartbeat rate limit.
func (t *Tracker) PingInterval() time.Duration {
	return t.pingInterval
}

// TracksGroup reports whether a LoadGame with the given mode and group is in scope.
func (t *Tracker) TracksGroup(gameMode, group string) bool {
	if gameMode != groupGameMode {
		return false
	}

	_, ok := t.groups[t.groupKey(group)]
	return ok
}

func (t *Tracker) groupKey(group string) uint64 {
	if !t.caseSensitive {
		group = strings.ToUpper(group)
	}

	return xxhash.Sum64String(group)
}

// HandleJournal runs a journal event through the state machine and forwards
// the resulting markers.
func (t *Tracker) HandleJournal(ctx context.Context, hc journal.Context, ev journal.Event) Report {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	rep := Report{Event: ev.String()}

	logCtx := log.With().
		Str("source", "JournalEntry").
		Str("event", ev.String()).
		Str("cmdr", hc.Cmdr).
		Str("system", hc.System).
		Str("station", hc.Station).
		Logger()

	switch {
	case ev.Kind.IsSessionStart():
		t.state.Tracked = t.scopeOf(logCtx, ev)
		if t.state.Tracked {
			t.announce(ctx, now, hc, &rep)
		}
		rep.Tracked = t.state.Tracked
		return rep

	case ev.Kind.IsSessionEnd():
		logCtx.Info().Msg("ShutDown")
		rep.Calls = append(rep.Calls, t.send(ctx, now, ActionLogoff, hc.Cmdr, ""))
		rep.Tracked = t.state.Tracked
		return rep
	}

	rep.Tracked = t.state.Tracked
	if !t.state.Tracked {
		logCtx.Trace().Msg("Not in a tracked session, event ignored")
		return rep
	}

	notify := ev.Kind.Notifications()
	if notify == 0 {
		rep.Calls = append(rep.Calls, t.ping(ctx, now, hc.Cmdr))
		return rep
	}

	logLocation(logCtx, ev)

	if notify.Has(journal.NotifySystem) {
		rep.Calls = append(rep.Calls, t.send(ctx, now, ActionSystem, hc.Cmdr, hc.System))
	}
	if notify.Has(journal.NotifyStation) {
		rep.Calls = append(rep.Calls, t.send(ctx, now, ActionStation, hc.Cmdr, hc.Station))
	}

	return rep
}

// scopeOf decides whether a session start event is in the tracked scope.
func (t *Tracker) scopeOf(logCtx zerolog.Logger, ev journal.Event) bool {
	if ev.Kind == journal.StartUp {
		// Game mode is unknown when the host starts mid-session, assume tracked
		logCtx.Info().Msg("StartUp, game mode unknown")
		return true
	}

	logCtx.Info().
		Str("game_mode", ev.GameMode).
		Str("group", ev.Group).
		Msg("LoadGame")

	return t.TracksGroup(ev.GameMode, ev.Group)
}

// Ping sends a heartbeat marker unless one was accepted within the ping interval.
func (t *Tracker) Ping(ctx context.Context, cmdr string) Outcome {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.ping(ctx, t.now(), cmdr).Outcome
}

func (t *Tracker) ping(ctx context.Context, now time.Time, cmdr string) Call {
	last := t.state.LastHeartbeat
	if !last.IsZero() && now.Sub(last) < t.pingInterval {
		log.Trace().
			Str("cmdr", cmdr).
			Dur("since", now.Sub(last)).
			Msg("Ping dropped by rate limit")
		return Call{Action: ActionPing, Outcome: Suppressed}
	}

	call := t.send(ctx, now, ActionPing, cmdr, "")
	if call.Outcome == Sent {
		log.Info().Str("cmdr", cmdr).Msg("PING")
	}

	return call
}

// announce sends the logon, system and station markers of a session start.
func (t *Tracker) announce(ctx context.Context, now time.Time, hc journal.Context, rep *Report) {
	rep.Calls = append(rep.Calls,
		t.send(ctx, now, ActionLogon, hc.Cmdr, ""),
		t.send(ctx, now, ActionSystem, hc.Cmdr, hc.System),
		t.send(ctx, now, ActionStation, hc.Cmdr, hc.Station),
	)
}

// send issues one marker and records accepted heartbeat-class markers.
func (t *Tracker) send(ctx context.Context, now time.Time, action Action, cmdr, param string) Call {
	call := Call{Action: action, Outcome: Skipped}

	if cmdr == "" {
		log.Debug().
			Str("action", string(action)).
			Msg("Marker skipped, commander not known")
		return call
	}
	if param == "" {
		param = t.unknown
	}

	var ok bool
	switch action {
	case ActionLogon:
		ok = t.notifier.NotifyLogon(ctx, cmdr)
	case ActionLogoff:
		ok = t.notifier.NotifyLogoff(ctx, cmdr)
	case ActionSystem:
		ok = t.notifier.NotifySystem(ctx, cmdr, param)
	case ActionStation:
		ok = t.notifier.NotifyStation(ctx, cmdr, param)
	case ActionPing:
		ok = t.notifier.NotifyPing(ctx, cmdr)
	}

	if !ok {
		call.Outcome = Failed
		return call
	}

	call.Outcome = Sent
	if action != ActionLogoff && now.After(t.state.LastHeartbeat) {
		t.state.LastHeartbeat = now
	}

	return call
}
