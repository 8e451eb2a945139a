package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/edrp-bridge/internal/tracker"
	"github.com/woozymasta/edrp-bridge/internal/vars"
)

// handleJournal passes a journal entry to the bridge and reports the markers sent.
// Malformed entries answer 422 with the diagnostic.
func (s *Server) handleJournal(w http.ResponseWriter, r *http.Request) {
	var req journalRequest
	if !s.decode(w, r, &req) {
		return
	}

	rep, err := s.bridge.OnJournalEntry(r.Context(), req.Cmdr, req.IsBeta, req.System, req.Station, req.Entry, req.State)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, rep)
}

// handleStatus passes a dashboard status tick to the bridge.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !s.decode(w, r, &req) {
		return
	}

	outcome, err := s.bridge.OnStatusEntry(r.Context(), req.Cmdr, req.IsBeta, req.Entry)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeOutcome(w, outcome)
}

// handleProfile passes the commander profile to the bridge.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if !s.decode(w, r, &req) {
		return
	}

	outcome, err := s.bridge.OnRemoteProfile(r.Context(), req.Data, req.IsBeta)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeOutcome(w, outcome)
}

func (s *Server) handlePrefsCmdr(w http.ResponseWriter, r *http.Request) {
	var req prefsRequest
	if !s.decode(w, r, &req) {
		return
	}

	s.bridge.OnPreferenceContextChanged(req.Cmdr, req.IsBeta)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePrefsClosed(w http.ResponseWriter, r *http.Request) {
	var req prefsRequest
	if !s.decode(w, r, &req) {
		return
	}

	s.bridge.OnPreferencesClosed(req.Cmdr, req.IsBeta)
	w.WriteHeader(http.StatusNoContent)
}

// handleSession returns the current session state.
func (s *Server) handleSession(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.bridge.Tracker().Snapshot())
}

// handleActive proxies the active commanders query.
func (s *Server) handleActive(w http.ResponseWriter, r *http.Request) {
	names, ok := s.remote.QueryActive(r.Context())
	if !ok {
		writeError(w, http.StatusBadGateway, "active commanders unavailable")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"commanders": names})
}

// handleActiveCount proxies the active commanders count query.
func (s *Server) handleActiveCount(w http.ResponseWriter, r *http.Request) {
	count, ok := s.remote.QueryActiveCount(r.Context())
	if !ok {
		writeError(w, http.StatusBadGateway, "active count unavailable")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, vars.Info())
}

// decode reads a size-capped JSON body into v, answering 400/413 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		log.Debug().
			Err(err).
			Str("ip", GetRealIP(r, s.trustProxy)).
			Str("path", r.URL.Path).
			Msg("Invalid JSON")

		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "body too large")
			return false
		}

		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}

	return true
}

func writeOutcome(w http.ResponseWriter, outcome tracker.Outcome) {
	writeJSON(w, http.StatusOK, map[string]tracker.Outcome{"outcome": outcome})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
