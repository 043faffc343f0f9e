package api

import (
	"net/http"

	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/service"
)

// ReportsHandler handles finder report endpoints.
type ReportsHandler struct {
	Service *service.Service
}

type reportRequest struct {
	FinderName   string `json:"finder_name"`
	FinderEmail  string `json:"finder_email"`
	Message      string `json:"message"`
	LocationHint string `json:"location_hint"`
}

func (req reportRequest) input() service.ReportInput {
	return service.ReportInput(req)
}

type reportReceipt struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

// FinderReport handles POST /api/found/{token}/reports.
func (h *ReportsHandler) FinderReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	report, err := h.Service.SubmitFinderReport(r.Context(), r.PathValue("token"), req.input())
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, reportReceipt{ID: report.ID, Status: report.Status})
}

// Sighting handles POST /api/lost/{id}/sightings.
func (h *ReportsHandler) Sighting(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item ID")
		return
	}

	var req reportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	report, err := h.Service.SubmitSighting(r.Context(), id, req.input())
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, reportReceipt{ID: report.ID, Status: report.Status})
}

// List handles GET /api/reports: the caller's open reports.
func (h *ReportsHandler) List(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.Dashboard(r.Context(), GetClaims(r.Context()).UserID, service.Filter{})
	if err != nil {
		serviceError(w, r, err)
		return
	}
	reports := view.Reports
	if reports == nil {
		reports = []model.FinderReport{}
	}
	jsonResponse(w, http.StatusOK, reports)
}

// Resolve handles POST /api/reports/{id}/resolve.
func (h *ReportsHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid report ID")
		return
	}

	if err := h.Service.ResolveReport(r.Context(), GetClaims(r.Context()).UserID, id); err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, reportReceipt{ID: id, Status: model.ReportStatusResolved})
}

type noteRequest struct {
	Body string `json:"body"`
}

// ItemReports handles GET /api/items/{id}/reports.
func (h *ReportsHandler) ItemReports(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item ID")
		return
	}

	reports, err := h.Service.ItemReports(r.Context(), GetClaims(r.Context()).UserID, id)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	if reports == nil {
		reports = []model.FinderReport{}
	}
	jsonResponse(w, http.StatusOK, reports)
}

// Notes handles GET /api/reports/{id}/notes.
func (h *ReportsHandler) Notes(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid report ID")
		return
	}

	messages, err := h.Service.ReportThread(r.Context(), GetClaims(r.Context()).UserID, id)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	if messages == nil {
		messages = []model.ReportMessage{}
	}
	jsonResponse(w, http.StatusOK, messages)
}

// AddNote handles POST /api/reports/{id}/notes.
func (h *ReportsHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid report ID")
		return
	}

	var req noteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	m, err := h.Service.AddReportNote(r.Context(), GetClaims(r.Context()).UserID, id, req.Body)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, m)
}
