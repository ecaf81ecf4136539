package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/autoserve/jobcard-backend/internal/billing"
	"github.com/autoserve/jobcard-backend/internal/jobcard"
	"github.com/autoserve/jobcard-backend/internal/middleware"
	"github.com/autoserve/jobcard-backend/internal/models"
)

// JobCardHandler serves the job card REST surface on top of the
// lifecycle engine.
type JobCardHandler struct {
	service *jobcard.Service
}

// NewJobCardHandler creates a new job card handler
func NewJobCardHandler(service *jobcard.Service) *JobCardHandler {
	return &JobCardHandler{service: service}
}

// Create opens a new job card.
func (h *JobCardHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "User context not found")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	var req struct {
		CustomerName string             `json:"customerName"`
		VehicleType  models.VehicleType `json:"vehicleType"`
		VehicleNo    string             `json:"vehicleNo"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	card, err := h.service.Create(r.Context(), claims, jobcard.CreateInput{
		CustomerName: req.CustomerName,
		VehicleType:  req.VehicleType,
		VehicleNo:    req.VehicleNo,
	})
	if err != nil {
		writeJobCardError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, card)
}

// List returns all job cards, most recently created first.
func (h *JobCardHandler) List(w http.ResponseWriter, r *http.Request) {
	cards, err := h.service.ListAll(r.Context())
	if err != nil {
		writeJobCardError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, cards)
}

// Get returns a single job card.
func (h *JobCardHandler) Get(w http.ResponseWriter, r *http.Request) {
	card, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeJobCardError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, card)
}

// AddUpdate appends a technician update to a job card.
func (h *JobCardHandler) AddUpdate(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "User context not found")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	var req struct {
		Status        models.JobStatus `json:"status"`
		Note          string           `json:"note"`
		CriticalIssue bool             `json:"criticalIssue"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	card, err := h.service.AppendUpdate(r.Context(), claims, chi.URLParam(r, "id"), jobcard.UpdateInput{
		Status:        req.Status,
		Note:          req.Note,
		CriticalIssue: req.CriticalIssue,
	})
	if err != nil {
		writeJobCardError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, card)
}

// AddPart attaches a part line to a job card.
func (h *JobCardHandler) AddPart(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "User context not found")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	var req struct {
		InventoryCode string  `json:"inventoryCode"`
		Name          string  `json:"name"`
		Quantity      int     `json:"quantity"`
		UnitPrice     float64 `json:"unitPrice"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	card, err := h.service.AttachPart(r.Context(), claims, chi.URLParam(r, "id"), jobcard.PartInput{
		InventoryCode: req.InventoryCode,
		Name:          req.Name,
		Quantity:      req.Quantity,
		UnitPrice:     req.UnitPrice,
	})
	if err != nil {
		writeJobCardError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, card)
}

// Bill computes the itemized bill for a job card.
func (h *JobCardHandler) Bill(w http.ResponseWriter, r *http.Request) {
	card, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeJobCardError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, billing.Compute(card))
}

// SetStatus overwrites a job card's status without touching its
// history. Used for the manager authorize action and advisor
// corrections.
func (h *JobCardHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "User context not found")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	var req struct {
		Status models.JobStatus `json:"status"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	card, err := h.service.SetStatus(r.Context(), claims, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeJobCardError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, card)
}
