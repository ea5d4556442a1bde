package web

import (
	"net/http"

	"github.com/vbonduro/rateboard/internal/domain"
	"github.com/vbonduro/rateboard/internal/service"
)

func (s *Server) handleListPromos(w http.ResponseWriter, r *http.Request) {
	promos, err := s.service.ListPromos(r.Context(), r.URL.Query().Get("active") == "true")
	if err != nil {
		s.writeError(w, r, err, "failed to fetch promotional images")
		return
	}
	writeJSON(w, http.StatusOK, promos)
}

func (s *Server) handleCreatePromo(w http.ResponseWriter, r *http.Request) {
	in := domain.PromoImageInput{IsActive: true}
	if !decodeJSON(w, r, &in) {
		return
	}
	in.StorageKey = ""

	p, err := s.service.CreatePromo(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err, "failed to create promotional image")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleUploadPromo(w http.ResponseWriter, r *http.Request) {
	files, ok := s.readUploads(w, r, "files", service.PromoPolicy, service.MaxFilesPerUpload)
	if !ok {
		return
	}

	promos, err := s.service.UploadPromo(r.Context(), files, service.PromoUploadOptions{
		DurationSeconds: formInt(r, "duration_seconds"),
		Transition:      domain.TransitionEffect(r.FormValue("transition")),
		AutoActivate:    r.FormValue("autoActivate") == "true",
	})
	if err != nil {
		s.writeError(w, r, err, "failed to upload promotional images")
		return
	}
	writeJSON(w, http.StatusCreated, promos)
}

func (s *Server) handleUpdatePromo(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeBadRequest(w, "invalid promo id")
		return
	}
	var patch domain.PromoImagePatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	p, err := s.service.UpdatePromo(r.Context(), id, patch)
	if err != nil {
		s.writeError(w, r, err, "failed to update promotional image")
		return
	}
	if p == nil {
		writeNotFound(w, "Promotional image")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePromo(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeBadRequest(w, "invalid promo id")
		return
	}

	deleted, err := s.service.DeletePromo(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, "failed to delete promotional image")
		return
	}
	if !deleted {
		writeNotFound(w, "Promotional image")
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: "Promotional image deleted successfully"})
}
