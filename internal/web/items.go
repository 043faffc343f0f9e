package web

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ItemStatusSubmit handles POST /item/{id}/status.
func (s *Server) ItemStatusSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.notFound(w, r)
		return
	}

	if err := s.Service.SetItemStatus(r.Context(), actor(r), id, r.FormValue("status")); err != nil {
		s.fail(w, r, "/dashboard", err, "")
		return
	}
	s.redirect(w, r, "/dashboard", "success", "Status updated.")
}

// ItemDeleteSubmit handles POST /item/{id}/delete.
func (s *Server) ItemDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.notFound(w, r)
		return
	}

	if err := s.Service.DeleteItem(r.Context(), actor(r), id); err != nil {
		s.fail(w, r, "/dashboard", err, "")
		return
	}
	s.redirect(w, r, "/dashboard", "success", "Item deleted.")
}

// QRDownload handles GET /download/{token}.
func (s *Server) QRDownload(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	png, err := s.Service.ItemQR(r.Context(), actor(r), token)
	if err != nil {
		s.failPage(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `attachment; filename="najdeno-qr.png"`)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "private, no-store")
	if _, err := w.Write(png); err != nil {
		slog.Error("failed to write QR response", "error", err)
	}
}

// Media handles GET /media/*: photos are streamed from the blob store or,
// with a presigning backend, redirected to it.
func (s *Server) Media(w http.ResponseWriter, r *http.Request) {
	obj, url, err := s.Service.Media(r.Context(), chi.URLParam(r, "*"))
	if err != nil {
		s.failPage(w, r, err)
		return
	}
	if url != "" {
		http.Redirect(w, r, url, http.StatusFound)
		return
	}

	w.Header().Set("Content-Type", obj.MIME)
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := w.Write(obj.Data); err != nil {
		slog.Error("failed to write image response", "error", err)
	}
}
