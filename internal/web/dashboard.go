package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/service"
)

// Dashboard handles GET /dashboard.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	filter := filterFrom(r)

	view, err := s.Service.Dashboard(r.Context(), actor(r), filter)
	if err != nil {
		s.failPage(w, r, err)
		return
	}

	s.Templates.Render(w, "dashboard.html", &struct {
		PageData
		Items    []model.Item
		Reports  []model.FinderReport
		Filter   service.Filter
		Statuses []string
	}{
		PageData: s.page(r, "My items", s.popFlash(w, r)),
		Items:    view.Items,
		Reports:  view.Reports,
		Filter:   filter,
		Statuses: model.ItemStatuses,
	})
}

// ItemCreateSubmit handles POST /dashboard.
func (s *Server) ItemCreateSubmit(w http.ResponseWriter, r *http.Request) {
	file, err := s.parseUpload(w, r)
	if err != nil {
		if errors.Is(err, errUploadTooLarge) {
			s.redirect(w, r, "/dashboard", "error", "That photo is too large.")
			return
		}
		s.redirect(w, r, "/dashboard", "error", "Could not read the form.")
		return
	}
	if file != nil {
		defer file.Close()
	}

	item, err := s.Service.RegisterItem(r.Context(), actor(r), service.ItemInput{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		Image:       optionalReader(file),
	})
	switch {
	case item == nil:
		s.fail(w, r, "/dashboard", err, "")
	case err != nil:
		slog.Warn("item registered without photo", "item", item.ID, "error", err)
		s.redirect(w, r, "/dashboard", "warning", "Item registered, but the photo could not be saved.")
	default:
		s.redirect(w, r, "/dashboard", "success", "Item registered. Download its QR code and stick it on.")
	}
}
