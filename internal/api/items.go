package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/qr"
	"github.com/erazemk/najdeno/internal/service"
)

// ItemsHandler handles registered item endpoints.
type ItemsHandler struct {
	Service *service.Service
}

type createItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type setStatusRequest struct {
	Status string `json:"status"`
}

// ownedItem is an item as its owner sees it, including where its QR code
// points.
type ownedItem struct {
	model.Item
	RecoveryToken string `json:"recovery_token"`
	RecoveryURL   string `json:"recovery_url"`
}

func (h *ItemsHandler) owned(item model.Item) ownedItem {
	return ownedItem{
		Item:          item,
		RecoveryToken: item.RecoveryToken,
		RecoveryURL:   qr.RecoveryURL(h.Service.BaseURL, item.RecoveryToken),
	}
}

// pathID parses the {id} path value.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
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

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.Dashboard(r.Context(), GetClaims(r.Context()).UserID, filterFrom(r))
	if err != nil {
		serviceError(w, r, err)
		return
	}

	items := make([]ownedItem, 0, len(view.Items))
	for _, item := range view.Items {
		items = append(items, h.owned(item))
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/items. Photos are uploaded through the web form.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.Service.RegisterItem(r.Context(), GetClaims(r.Context()).UserID, service.ItemInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, h.owned(*item))
}

// SetStatus handles POST /api/items/{id}/status.
func (h *ItemsHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item ID")
		return
	}

	var req setStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.SetItemStatus(r.Context(), GetClaims(r.Context()).UserID, id, req.Status); err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"status": req.Status})
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item ID")
		return
	}

	if err := h.Service.DeleteItem(r.Context(), GetClaims(r.Context()).UserID, id); err != nil {
		serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// QR handles GET /api/qr/{token}.
func (h *ItemsHandler) QR(w http.ResponseWriter, r *http.Request) {
	png, err := h.Service.ItemQR(r.Context(), GetClaims(r.Context()).UserID, r.PathValue("token"))
	if err != nil {
		serviceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", qr.MIME)
	w.Header().Set("Cache-Control", "private, no-store")
	if _, err := w.Write(png); err != nil {
		slog.Error("failed to write QR response", "error", err)
	}
}

// Resolve handles GET /api/found/{token}: the public view of a tagged item.
func (h *ItemsHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	item, err := h.Service.ResolveToken(r.Context(), r.PathValue("token"))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, item.Public())
}

// LostBoard handles GET /api/lost.
func (h *ItemsHandler) LostBoard(w http.ResponseWriter, r *http.Request) {
	f := filterFrom(r)
	f.Status = ""

	items, err := h.Service.LostBoard(r.Context(), f)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	if items == nil {
		items = []model.PublicItem{}
	}
	jsonResponse(w, http.StatusOK, items)
}
