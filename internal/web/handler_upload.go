package web

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/vbonduro/rateboard/internal/domain"
	"github.com/vbonduro/rateboard/internal/service"
)

// multipartMemory is how much of a multipart form is kept in memory before
// parts spill to temporary files.
const multipartMemory = 32 << 20

// readUploads parses the multipart form and returns up to maxFiles files sent
// under field, each with a MIME type sniffed from its content. Files are read
// one byte past the policy limit so oversize files reach the service check
// without being held in full.
func (s *Server) readUploads(w http.ResponseWriter, r *http.Request, field string, policy service.UploadPolicy, maxFiles int) ([]service.Upload, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxFiles)*(policy.MaxBytes+1)+maxJSONBody)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, messageBody{Message: "upload too large"})
			return nil, false
		}
		writeBadRequest(w, "failed to parse form")
		return nil, false
	}

	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		writeJSON(w, http.StatusBadRequest, messageBody{
			Message: "No files uploaded",
			Errors:  map[string]string{field: "required"},
		})
		return nil, false
	}
	if len(headers) > maxFiles {
		writeJSON(w, http.StatusBadRequest, messageBody{
			Message: "Too many files",
			Errors:  map[string]string{field: "max=" + strconv.Itoa(maxFiles)},
		})
		return nil, false
	}

	files := make([]service.Upload, 0, len(headers))
	for _, fh := range headers {
		u, err := s.readPart(fh, policy.MaxBytes)
		if err != nil {
			s.logger.Error("read upload failed", "field", field, "filename", fh.Filename, "error", err)
			writeJSON(w, http.StatusInternalServerError, messageBody{Message: "failed to read file"})
			return nil, false
		}
		files = append(files, u)
	}
	return files, true
}

func (s *Server) readPart(fh *multipart.FileHeader, maxBytes int64) (service.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return service.Upload{}, err
	}
	defer closeWithLog(f, "upload file", s.logger)

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return service.Upload{}, err
	}
	return service.Upload{
		Filename: fh.Filename,
		MimeType: sniff(data),
		Data:     data,
	}, nil
}

// sniff returns the bare media type detected from data, without parameters.
func sniff(data []byte) string {
	detected := mimetype.Detect(data).String()
	if mt, _, err := mime.ParseMediaType(detected); err == nil {
		return mt
	}
	return detected
}

// formInt returns the named form value as an int, or zero when it is absent
// or not a number.
func formInt(r *http.Request, name string) int {
	n, err := strconv.Atoi(r.FormValue(name))
	if err != nil {
		return 0
	}
	return n
}

func (s *Server) handleGetUpload(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" || path.Clean("/"+key) != "/"+key {
		writeNotFound(w, "File")
		return
	}

	body, mimeType, err := s.service.OpenUpload(r.Context(), key)
	if err != nil {
		if !errors.Is(err, domain.ErrBlobNotFound) {
			s.logger.Error("open upload failed", "key", key, "error", err)
		}
		writeNotFound(w, "File")
		return
	}
	defer closeWithLog(body, "upload "+key, s.logger)

	// Keys are never reused, so the content under a key never changes.
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	if mimeType != "" {
		w.Header().Set("Content-Type", mimeType)
	}

	if rs, ok := body.(io.ReadSeeker); ok {
		http.ServeContent(w, r, path.Base(key), time.Time{}, rs)
		return
	}
	if _, err := io.Copy(w, body); err != nil {
		s.logger.Warn("stream upload failed", "key", key, "error", err)
	}
}
