package api

import (
	"net/http"

	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/service"
)

// FoundHandler handles anonymous found post endpoints.
type FoundHandler struct {
	Service *service.Service
}

type createFoundRequest struct {
	FinderName    string `json:"finder_name"`
	FinderEmail   string `json:"finder_email"`
	ItemName      string `json:"item_name"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	LocationFound string `json:"location_found"`
}

// claimResponse hands the finder's contact to the claimant only.
type claimResponse struct {
	model.FoundPost
	FinderEmail string `json:"finder_email"`
}

// List handles GET /api/found-items.
func (h *FoundHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.Service.FoundBoard(r.Context(), filterFrom(r))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	if posts == nil {
		posts = []model.FoundPost{}
	}
	jsonResponse(w, http.StatusOK, posts)
}

// Create handles POST /api/found-items.
func (h *FoundHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createFoundRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := h.Service.PostFoundItem(r.Context(), service.FoundInput{
		FinderName:    req.FinderName,
		FinderEmail:   req.FinderEmail,
		ItemName:      req.ItemName,
		Description:   req.Description,
		Category:      req.Category,
		LocationFound: req.LocationFound,
	})
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, post)
}

// Claim handles POST /api/found-items/{id}/claim.
func (h *FoundHandler) Claim(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid post ID")
		return
	}

	post, err := h.Service.ClaimFoundPost(r.Context(), GetClaims(r.Context()).UserID, id)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, claimResponse{FoundPost: *post, FinderEmail: post.FinderEmail})
}
