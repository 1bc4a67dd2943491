package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"i4.energy/across/btbond/radio"
	"i4.energy/across/btbond/rn"
)

// Server handles incoming HTTP requests for interacting with the
// configured radio. Requests are served one at a time since the radio
// handles a single exchange at once.
type Server struct {
	Logger *slog.Logger
	Radio  *radio.Radio

	mu sync.Mutex
}

// ServeHTTP implements the http.Handler interface for the Server struct
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /bond", s.handleBond)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /settings", s.handleSettings)
	mux.ServeHTTP(w, r)
}

func (s *Server) sendError(w http.ResponseWriter, message string, statusCode int) {
	if message == "" {
		w.WriteHeader(statusCode)
		return
	}

	type ErrorResponse struct {
		Message string `json:"message"`
	}
	s.sendJSON(w, ErrorResponse{Message: message}, statusCode)
}

func (s *Server) sendJSON(w http.ResponseWriter, v any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// handleBond pairs the attached radio with the other address of the request
func (s *Server) handleBond(w http.ResponseWriter, r *http.Request) {
	type BondRequest struct {
		Address1 string `json:"address1"`
		Address2 string `json:"address2"`
	}

	var req BondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Address1 == "" || req.Address2 == "" {
		s.sendError(w, "both 'address1' and 'address2' fields are required", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	err := s.Radio.Bond(r.Context(), req.Address1, req.Address2)
	s.mu.Unlock()

	switch {
	case errors.Is(err, radio.ErrAddressMismatch):
		s.Logger.Warn("Bonding rejected", "error", err)
		s.sendError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	case err != nil:
		s.Logger.Error("Failed to bond", "error", err)
		s.sendError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.Logger.Info("Radio bonded", "address1", req.Address1, "address2", req.Address2)
	w.WriteHeader(http.StatusOK)
}

// handleStatus reports whether the radio holds a connection
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	type StatusResponse struct {
		Connected bool `json:"connected"`
	}

	s.mu.Lock()
	connected := s.Radio.IsConnected(r.Context())
	s.mu.Unlock()

	s.sendJSON(w, StatusResponse{Connected: connected}, http.StatusOK)
}

// handleSettings returns the radio's settings dump, raw and as key/value pairs
func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	type SettingsResponse struct {
		Raw      string       `json:"raw"`
		Settings []rn.Setting `json:"settings"`
	}

	s.mu.Lock()
	dump := s.Radio.PrintSettingsAndExit(r.Context())
	s.mu.Unlock()

	s.sendJSON(w, SettingsResponse{Raw: dump, Settings: rn.ParseSettings(dump)}, http.StatusOK)
}
