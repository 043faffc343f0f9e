package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/service"
)

type reportForm struct {
	FinderName   string
	FinderEmail  string
	Message      string
	LocationHint string
}

func reportInput(r *http.Request) service.ReportInput {
	return service.ReportInput{
		FinderName:   r.FormValue("finder_name"),
		FinderEmail:  r.FormValue("finder_email"),
		Message:      r.FormValue("message"),
		LocationHint: r.FormValue("location_hint"),
	}
}

// LostPage handles GET /lost.
func (s *Server) LostPage(w http.ResponseWriter, r *http.Request) {
	filter := filterFrom(r)
	filter.Status = ""

	items, err := s.Service.LostBoard(r.Context(), filter)
	if err != nil {
		s.failPage(w, r, err)
		return
	}

	s.Templates.Render(w, "lost.html", &struct {
		PageData
		Items  []model.PublicItem
		Filter service.Filter
	}{
		PageData: s.page(r, "Lost items", s.popFlash(w, r)),
		Items:    items,
		Filter:   filter,
	})
}

// SightingSubmit handles POST /lost/{id}/sighting.
func (s *Server) SightingSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.notFound(w, r)
		return
	}

	if _, err := s.Service.SubmitSighting(r.Context(), id, reportInput(r)); err != nil {
		s.fail(w, r, "/lost", err, "That item is no longer marked as lost.")
		return
	}
	s.redirect(w, r, "/lost", "success", "Thanks! The owner has been notified.")
}

// FoundPage handles GET /found/{token}, the page a QR code opens.
func (s *Server) FoundPage(w http.ResponseWriter, r *http.Request) {
	item, err := s.Service.ResolveToken(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		s.failPage(w, r, err)
		return
	}
	s.renderFound(w, r, http.StatusOK, item, reportForm{}, s.popFlash(w, r))
}

func (s *Server) renderFound(w http.ResponseWriter, r *http.Request, status int, item *model.Item, form reportForm, flash *Flash) {
	s.Templates.RenderStatus(w, status, "found.html", &struct {
		PageData
		Item  model.PublicItem
		Token string
		Form  reportForm
	}{
		PageData: s.page(r, "Found: "+item.Name, flash),
		Item:     item.Public(),
		Token:    item.RecoveryToken,
		Form:     form,
	})
}

// FoundSubmit handles POST /found/{token}.
func (s *Server) FoundSubmit(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	in := reportInput(r)

	_, err := s.Service.SubmitFinderReport(r.Context(), token, in)
	if err == nil {
		s.redirect(w, r, "/found/"+token, "success", "Thanks! The owner has been notified.")
		return
	}

	status := statusFor(err)
	if status != http.StatusBadRequest {
		s.failPage(w, r, err)
		return
	}

	item, lookupErr := s.Service.ResolveToken(r.Context(), token)
	if lookupErr != nil {
		s.failPage(w, r, lookupErr)
		return
	}
	form := reportForm(in)
	s.renderFound(w, r, status, item, form, &Flash{Kind: "error", Message: messageFor(err, "")})
}

// ReportResolveSubmit handles POST /report/{id}/resolve.
func (s *Server) ReportResolveSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.notFound(w, r)
		return
	}

	if err := s.Service.ResolveReport(r.Context(), actor(r), id); err != nil {
		s.fail(w, r, "/dashboard", err, "That report was already resolved.")
		return
	}
	s.redirect(w, r, "/dashboard", "success", "Report resolved.")
}
