package handlers

import (
	"net/http"

	"github.com/autoserve/jobcard-backend/internal/board"
	"github.com/autoserve/jobcard-backend/internal/jobcard"
)

// KanbanHandler serves the board view.
type KanbanHandler struct {
	service *jobcard.Service
}

// NewKanbanHandler creates a new kanban handler
func NewKanbanHandler(service *jobcard.Service) *KanbanHandler {
	return &KanbanHandler{service: service}
}

// Board returns job cards grouped by current status.
func (h *KanbanHandler) Board(w http.ResponseWriter, r *http.Request) {
	cards, err := h.service.ListAll(r.Context())
	if err != nil {
		writeJobCardError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, board.Project(cards))
}
