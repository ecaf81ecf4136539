package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/autoserve/jobcard-backend/internal/inventory"
)

// InventoryHandler serves the read-only parts catalog.
type InventoryHandler struct {
	catalog inventory.Catalog
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(catalog inventory.Catalog) *InventoryHandler {
	return &InventoryHandler{catalog: catalog}
}

// List returns all catalog items, optionally filtered by a ?q=
// substring match on the code.
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.List(r.URL.Query().Get("q")))
}

// Get returns a single catalog item by code.
func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, ok := h.catalog.ByCode(chi.URLParam(r, "code"))
	if !ok {
		writeError(w, http.StatusNotFound, "Inventory item not found")
		return
	}

	writeJSON(w, http.StatusOK, item)
}
