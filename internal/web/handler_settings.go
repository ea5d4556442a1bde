package web

import (
	"net/http"

	"github.com/vbonduro/rateboard/internal/domain"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	ds, err := s.service.CurrentSettings(r.Context())
	if err != nil {
		s.writeError(w, r, err, "failed to fetch settings")
		return
	}
	writeJSON(w, http.StatusOK, ds)
}

// handleCreateSettings starts from the defaults so a partial body still
// yields a complete settings version.
func (s *Server) handleCreateSettings(w http.ResponseWriter, r *http.Request) {
	var patch domain.DisplaySettingsPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	in := domain.DefaultDisplaySettings().SettingsInput()
	patch.Apply(&in)

	ds, err := s.service.CreateSettings(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err, "failed to create settings")
		return
	}
	writeJSON(w, http.StatusCreated, ds)
}

func (s *Server) handleUpdateCurrentSettings(w http.ResponseWriter, r *http.Request) {
	var patch domain.DisplaySettingsPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	ds, err := s.service.UpdateCurrentSettings(r.Context(), patch)
	if err != nil {
		s.writeError(w, r, err, "failed to update settings")
		return
	}
	writeJSON(w, http.StatusOK, ds)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeBadRequest(w, "invalid settings id")
		return
	}
	var patch domain.DisplaySettingsPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	ds, err := s.service.UpdateSettings(r.Context(), id, patch)
	if err != nil {
		s.writeError(w, r, err, "failed to update settings")
		return
	}
	if ds == nil {
		writeNotFound(w, "Settings")
		return
	}
	writeJSON(w, http.StatusOK, ds)
}
