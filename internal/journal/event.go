// Package journal defines the game events delivered by the host and decodes
// raw journal entries into them.
package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrMissingEventKind is returned for journal entries without an event key.
var ErrMissingEventKind = errors.New("no event key in journal entry")

// Kind is the journal event name.
type Kind string

// Event kinds with a dedicated handler. Every other name decodes as Unknown.
const (
	Unknown   Kind = "Unknown"

	StartUp   Kind = "StartUp"
	LoadGame  Kind = "LoadGame"
	ShutDown  Kind = "ShutDown"
	Docked    Kind = "Docked"
	FSDJump   Kind = "FSDJump"
	Liftoff   Kind = "Liftoff"
	Location  Kind = "Location"
	Touchdown Kind = "Touchdown"
	Undocked  Kind = "Undocked"
)

// Notify is a bit set of location notifications an event triggers.
type Notify uint8

// Location notifications.
const (
	NotifySystem Notify = 1 << iota
	NotifyStation
)

// locationKinds maps location events to the notifications they trigger.
var locationKinds = map[Kind]Notify{
	Docked:    NotifySystem | NotifyStation,
	FSDJump:   NotifySystem,
	Liftoff:   NotifySystem,
	Location:  NotifySystem | NotifyStation,
	Touchdown: NotifySystem,
	Undocked:  NotifySystem | NotifyStation,
}

// Known reports whether the kind has a dedicated handler.
func (k Kind) Known() bool {
	switch k {
	case StartUp, LoadGame, ShutDown:
		return true
	}
	_, ok := locationKinds[k]
	return ok
}

// IsSessionStart reports whether the kind opens a game session.
func (k Kind) IsSessionStart() bool {
	return k == StartUp || k == LoadGame
}

// IsSessionEnd reports whether the kind closes a game session.
func (k Kind) IsSessionEnd() bool {
	return k == ShutDown
}

// Notifications returns the location notifications of the kind, zero for non-location events.
func (k Kind) Notifications() Notify {
	return locationKinds[k]
}

// Has reports whether n includes flag.
func (n Notify) Has(flag Notify) bool {
	return n&flag != 0
}

// Event is a single decoded journal entry.
type Event struct {
	// Timestamp of the entry, zero if absent or malformed
	Timestamp time.Time

	// StarPos is the star position on FSDJump/Location, nil if absent
	StarPos *[3]float64

	// StationName is the departed station on Undocked, nil if absent
	StationName *string

	// Name is the raw event name as written by the game
	Name string

	Kind     Kind
	GameMode string
	Group    string
}

// String returns the raw event name, falling back to the kind.
func (e Event) String() string {
	if e.Name != "" {
		return e.Name
	}

	return string(e.Kind)
}

// Decode parses a raw journal entry. Only the event key is mandatory:
// entries that are not a JSON object or lack a string event name fail with
// ErrMissingEventKind, ancillary fields of an unexpected shape are left empty.
func Decode(raw []byte) (Event, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMissingEventKind, err)
	}

	var ev Event
	if !field(fields, "event", &ev.Name) || ev.Name == "" {
		return Event{}, ErrMissingEventKind
	}

	ev.Kind = Kind(ev.Name)
	if !ev.Kind.Known() {
		ev.Kind = Unknown
	}

	field(fields, "timestamp", &ev.Timestamp)
	field(fields, "GameMode", &ev.GameMode)
	field(fields, "Group", &ev.Group)

	var pos [3]float64
	if field(fields, "StarPos", &pos) {
		ev.StarPos = &pos
	}

	var stationName string
	if field(fields, "StationName", &stationName) {
		ev.StationName = &stationName
	}

	return ev, nil
}

// field decodes fields[key] into v, reporting whether it was present and well formed.
func field(fields map[string]json.RawMessage, key string, v any) bool {
	raw, ok := fields[key]
	if !ok || string(raw) == "null" {
		return false
	}

	return json.Unmarshal(raw, v) == nil
}

// Context carries the ambient values the host supplies with each callback.
// Empty strings mean the value is not known yet.
type Context struct {
	Cmdr    string `json:"cmdr"`
	System  string `json:"system"`
	Station string `json:"station"`
	IsBeta  bool   `json:"is_beta"`
}

// Profile is the commander data the host fetches from the game servers.
type Profile struct {
	Commander *struct {
		Name *string `json:"name"`
	} `json:"commander"`
}

// CmdrName returns the commander name from the profile, if present.
func (p Profile) CmdrName() (string, bool) {
	if p.Commander == nil || p.Commander.Name == nil {
		return "", false
	}

	return *p.Commander.Name, true
}
