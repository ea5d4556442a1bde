package web

import (
	"net/http"

	"github.com/vbonduro/rateboard/internal/domain"
	"github.com/vbonduro/rateboard/internal/service"
)

func (s *Server) handleListMedia(w http.ResponseWriter, r *http.Request) {
	items, err := s.service.ListMedia(r.Context(), r.URL.Query().Get("active") == "true")
	if err != nil {
		s.writeError(w, r, err, "failed to fetch media items")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateMedia(w http.ResponseWriter, r *http.Request) {
	in := domain.MediaItemInput{IsActive: true}
	if !decodeJSON(w, r, &in) {
		return
	}
	// Only uploads may reference stored files.
	in.StorageKey = ""

	m, err := s.service.CreateMedia(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err, "failed to create media item")
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleUploadMedia(w http.ResponseWriter, r *http.Request) {
	files, ok := s.readUploads(w, r, "files", service.MediaPolicy, service.MaxFilesPerUpload)
	if !ok {
		return
	}

	items, err := s.service.UploadMedia(r.Context(), files, service.MediaUploadOptions{
		DurationSeconds: formInt(r, "duration_seconds"),
		AutoActivate:    r.FormValue("autoActivate") == "true",
	})
	if err != nil {
		s.writeError(w, r, err, "failed to upload media files")
		return
	}
	writeJSON(w, http.StatusCreated, items)
}

func (s *Server) handleUpdateMedia(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeBadRequest(w, "invalid media id")
		return
	}
	var patch domain.MediaItemPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	m, err := s.service.UpdateMedia(r.Context(), id, patch)
	if err != nil {
		s.writeError(w, r, err, "failed to update media item")
		return
	}
	if m == nil {
		writeNotFound(w, "Media item")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleDeleteMedia(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeBadRequest(w, "invalid media id")
		return
	}

	deleted, err := s.service.DeleteMedia(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, "failed to delete media item")
		return
	}
	if !deleted {
		writeNotFound(w, "Media item")
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: "Media item deleted successfully"})
}
