package web

import (
	"net/http"
	"strconv"

	"github.com/vbonduro/rateboard/internal/domain"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 500
)

func (s *Server) handleGetCurrentRates(w http.ResponseWriter, r *http.Request) {
	q, err := s.service.CurrentRates(r.Context())
	if err != nil {
		s.writeError(w, r, err, "failed to fetch rates")
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) handleRateHistory(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeBadRequest(w, "limit must be a positive integer")
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	history, err := s.service.RateHistory(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err, "failed to fetch rate history")
		return
	}
	if history == nil {
		history = []*domain.RateQuote{}
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleCreateRates(w http.ResponseWriter, r *http.Request) {
	var body domain.RateQuotePatch
	if !decodeJSON(w, r, &body) {
		return
	}
	in, err := body.Input()
	if err != nil {
		s.writeError(w, r, err, "failed to create rates")
		return
	}

	q, err := s.service.CreateRates(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err, "failed to create rates")
		return
	}
	writeJSON(w, http.StatusCreated, q)
}

func (s *Server) handleUpdateRates(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeBadRequest(w, "invalid rates id")
		return
	}
	var patch domain.RateQuotePatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	q, err := s.service.UpdateRates(r.Context(), id, patch)
	if err != nil {
		s.writeError(w, r, err, "failed to update rates")
		return
	}
	if q == nil {
		writeNotFound(w, "Rates")
		return
	}
	writeJSON(w, http.StatusOK, q)
}
