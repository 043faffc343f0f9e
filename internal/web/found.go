package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/service"
)

// FoundItemsPage handles GET /found-items.
func (s *Server) FoundItemsPage(w http.ResponseWriter, r *http.Request) {
	filter := filterFrom(r)

	posts, err := s.Service.FoundBoard(r.Context(), filter)
	if err != nil {
		s.failPage(w, r, err)
		return
	}

	s.Templates.Render(w, "found_items.html", &struct {
		PageData
		Posts  []model.FoundPost
		Filter service.Filter
	}{
		PageData: s.page(r, "Found items", s.popFlash(w, r)),
		Posts:    posts,
		Filter:   filter,
	})
}

// FoundItemSubmit handles POST /found-items. Anyone may post.
func (s *Server) FoundItemSubmit(w http.ResponseWriter, r *http.Request) {
	file, err := s.parseUpload(w, r)
	if err != nil {
		if errors.Is(err, errUploadTooLarge) {
			s.redirect(w, r, "/found-items", "error", "That photo is too large.")
			return
		}
		s.redirect(w, r, "/found-items", "error", "Could not read the form.")
		return
	}
	if file != nil {
		defer file.Close()
	}

	post, err := s.Service.PostFoundItem(r.Context(), service.FoundInput{
		FinderName:    r.FormValue("finder_name"),
		FinderEmail:   r.FormValue("finder_email"),
		ItemName:      r.FormValue("item_name"),
		Description:   r.FormValue("description"),
		Category:      r.FormValue("category"),
		LocationFound: r.FormValue("location_found"),
		Image:         optionalReader(file),
	})
	switch {
	case post == nil:
		s.fail(w, r, "/found-items", err, "")
	case err != nil:
		slog.Warn("found post saved without photo", "post", post.ID, "error", err)
		s.redirect(w, r, "/found-items", "warning", "Posted, but the photo could not be saved.")
	default:
		s.redirect(w, r, "/found-items", "success", "Thanks for posting! The owner can now claim it.")
	}
}

// FoundItemClaimSubmit handles POST /found-items/{id}/claim.
func (s *Server) FoundItemClaimSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.notFound(w, r)
		return
	}

	post, err := s.Service.ClaimFoundPost(r.Context(), actor(r), id)
	if err != nil {
		s.fail(w, r, "/found-items", err, "Someone has already claimed that item.")
		return
	}
	s.redirect(w, r, "/found-items", "success",
		"Claimed "+post.ItemName+". Contact "+post.FinderName+" at "+post.FinderEmail+" to collect it.")
}
