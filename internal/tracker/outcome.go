package tracker

// Outcome is the result of a single forwarding attempt.
type Outcome int

const (
	// Sent means the API accepted the request.
	Sent Outcome = iota

	// Suppressed means the heartbeat rate limit dropped the ping.
	Suppressed

	// Failed means the request was attempted but the API did not accept it.
	Failed

	// Skipped means the commander was unknown so there was nothing to
	// address on the wire.
	Skipped
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	switch o {
	case Sent:
		return "sent"
	case Suppressed:
		return "suppressed"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// MarshalText renders the outcome by name in JSON reports.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Action names a remote call.
type Action string

// Remote calls issued by the tracker.
const (
	ActionLogon   Action = "logon"
	ActionLogoff  Action = "logoff"
	ActionSystem  Action = "system"
	ActionStation Action = "station"
	ActionPing    Action = "ping"
)

// Call is one remote call issued while handling an event.
type Call struct {
	Action  Action  `json:"action"`
	Outcome Outcome `json:"outcome"`
}

// Report describes what handling a single event did.
type Report struct {
	Event   string `json:"event"`
	Calls   []Call `json:"calls"`
	Tracked bool   `json:"tracked"`
}

// Actions lists the actions of the calls that reached the wire (sent or failed).
func (r Report) Actions() []Action {
	var out []Action
	for _, c := range r.Calls {
		if c.Outcome == Sent || c.Outcome == Failed {
			out = append(out, c.Action)
		}
	}

	return out
}
