package web

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/erazemk/najdeno/internal/service"
)

var errUploadTooLarge = errors.New("upload too large")

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func filterFrom(r *http.Request) service.Filter {
	q := r.URL.Query()
	return service.Filter{
		Query:    q.Get("q"),
		Category: q.Get("category"),
		Status:   q.Get("status"),
	}
}

// parseUpload parses a multipart form capped at MaxUploadBytes and returns
// the optional "image" file. The caller must close the file.
func (s *Server) parseUpload(w http.ResponseWriter, r *http.Request) (multipart.File, error) {
	limit := s.MaxUploadBytes
	if limit <= 0 {
		limit = DefaultMaxUploadBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(1 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errUploadTooLarge
		}
		if !errors.Is(err, http.ErrNotMultipart) {
			return nil, err
		}
		return nil, nil
	}

	file, _, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return file, nil
}

// optionalReader keeps a nil multipart.File a nil io.Reader.
func optionalReader(f multipart.File) io.Reader {
	if f == nil {
		return nil
	}
	return f
}
