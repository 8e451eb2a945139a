package server

import (
	"context"
	"encoding/json"
	"time"

	"github.com/woozymasta/edrp-bridge/internal/bridge"
	"github.com/woozymasta/edrp-bridge/internal/journal"
)

// ActiveQuerier answers the read queries of the EDRP API.
type ActiveQuerier interface {
	QueryActive(ctx context.Context) ([]string, bool)
	QueryActiveCount(ctx context.Context) (int, bool)
}

// Server holds the dependencies and configuration required to serve the
// host callbacks over HTTP.
type Server struct {
	// bridge receives every host callback; it serializes access to the session state.
	bridge *bridge.Bridge

	// remote answers the active commanders queries.
	remote ActiveQuerier

	// shutdown is a signal channel used to stop the limiter cleanup routine.
	shutdown chan struct{}

	// authToken is the Bearer token required on every /api route, empty disables the check.
	authToken string

	// maxBody specifies the maximum allowed size (in bytes) for incoming callback bodies.
	maxBody int64

	// hardLimitCount is the maximum number of requests allowed per IP address
	// within the hardLimitWin duration, zero disables the limit.
	hardLimitCount int

	// hardLimitWin is the time window duration for the hard rate limiter.
	hardLimitWin time.Duration

	// trustProxy indicates whether the server should trust headers like X-Forwarded-For
	// or CF-Connecting-IP when determining the client's real IP address.
	trustProxy bool
}

// journalRequest is the body of POST /api/journal.
type journalRequest struct {
	// Entry is the raw journal entry, decoded by the bridge
	Entry json.RawMessage `json:"entry"`

	// State is the host state dictionary, passed through untouched
	State json.RawMessage `json:"state,omitempty"`

	Cmdr    string `json:"cmdr"`
	System  string `json:"system"`
	Station string `json:"station"`
	IsBeta  bool   `json:"is_beta"`
}

// statusRequest is the body of POST /api/status.
type statusRequest struct {
	Entry  json.RawMessage `json:"entry"`
	Cmdr   string          `json:"cmdr"`
	IsBeta bool            `json:"is_beta"`
}

// profileRequest is the body of POST /api/profile.
type profileRequest struct {
	Data   journal.Profile `json:"data"`
	IsBeta bool            `json:"is_beta"`
}

// prefsRequest is the body of the POST /api/prefs/* routes.
type prefsRequest struct {
	Cmdr   string `json:"cmdr"`
	IsBeta bool   `json:"is_beta"`
}
