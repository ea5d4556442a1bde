package web

import (
	"net/http"
	"strconv"

	"github.com/vbonduro/rateboard/internal/domain"
	"github.com/vbonduro/rateboard/internal/service"
)

func (s *Server) handleGetBanner(w http.ResponseWriter, r *http.Request) {
	b, err := s.service.CurrentBanner(r.Context())
	if err != nil {
		s.writeError(w, r, err, "failed to fetch banner settings")
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleCreateBanner(w http.ResponseWriter, r *http.Request) {
	in := domain.BannerInput{HeightPx: domain.DefaultBannerHeightPx}
	if !decodeJSON(w, r, &in) {
		return
	}
	in.StorageKey = ""

	b, err := s.service.CreateBanner(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err, "failed to create banner")
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (s *Server) handleUploadBanner(w http.ResponseWriter, r *http.Request) {
	files, ok := s.readUploads(w, r, "banner", service.BannerPolicy, 1)
	if !ok {
		return
	}

	var opts service.BannerUploadOptions
	if v := r.FormValue("height_px"); v != "" {
		h, err := strconv.Atoi(v)
		if err != nil {
			writeBadRequest(w, "height_px must be an integer")
			return
		}
		opts.HeightPx = &h
	}

	b, err := s.service.UploadBanner(r.Context(), files[0], opts)
	if err != nil {
		s.writeError(w, r, err, "failed to upload banner")
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (s *Server) handleUpdateBanner(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeBadRequest(w, "invalid banner id")
		return
	}
	var patch domain.BannerPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	b, err := s.service.UpdateBanner(r.Context(), id, patch)
	if err != nil {
		s.writeError(w, r, err, "failed to update banner")
		return
	}
	if b == nil {
		writeNotFound(w, "Banner")
		return
	}
	writeJSON(w, http.StatusOK, b)
}
