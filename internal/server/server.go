// Package server implements the local HTTP host adapter: the companion app shim
// posts its plugin callbacks here and they are handed to the bridge inline.
package server

import (
	"net/http"

	"github.com/woozymasta/edrp-bridge/internal/bridge"
	"github.com/woozymasta/edrp-bridge/internal/config"
)

// defaultMaxBody caps callback bodies when no size is configured.
const defaultMaxBody = 1 << 20

// New creates a new Server instance with the provided bridge, API querier, and configuration.
func New(b *bridge.Bridge, remote ActiveQuerier, cfg *config.Config) *Server {
	maxBody := cfg.Server.MaxBodySize
	if maxBody <= 0 {
		maxBody = defaultMaxBody
	}

	return &Server{
		bridge:         b,
		remote:         remote,
		authToken:      cfg.Server.AuthToken,
		maxBody:        maxBody,
		trustProxy:     cfg.Server.TrustProxy,
		hardLimitCount: cfg.RateLimit.HardLimitCount,
		hardLimitWin:   cfg.RateLimit.HardLimitWin,

		shutdown: make(chan struct{}),
	}
}

// Close stops background routines started by Run.
func (s *Server) Close() {
	select {
	case <-s.shutdown:
	default:
		close(s.shutdown)
	}
}

// Run configures the HTTP routes and returns the main handler.
func (s *Server) Run() http.Handler {
	api := http.NewServeMux()

	api.HandleFunc("POST /api/journal", s.handleJournal)
	api.HandleFunc("POST /api/status", s.handleStatus)
	api.HandleFunc("POST /api/profile", s.handleProfile)
	api.HandleFunc("POST /api/prefs/cmdr", s.handlePrefsCmdr)
	api.HandleFunc("POST /api/prefs/closed", s.handlePrefsClosed)
	api.HandleFunc("GET /api/session", s.handleSession)
	api.HandleFunc("GET /api/active", s.handleActive)
	api.HandleFunc("GET /api/active-count", s.handleActiveCount)

	mux := http.NewServeMux()
	mux.Handle("/api/", s.RateLimitMiddleware(AuthMiddleware(s.authToken, api)))
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /version", handleVersion)

	return s.LoggingMiddleware(mux)
}
