package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/autoserve/jobcard-backend/internal/db"
	"github.com/autoserve/jobcard-backend/internal/jobcard"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeJobCardError maps lifecycle engine errors onto HTTP statuses:
// validation 400, bad id 400, unknown id 404, anything else 500.
func writeJobCardError(w http.ResponseWriter, err error) {
	var verr *jobcard.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, db.ErrInvalidID):
		writeError(w, http.StatusBadRequest, "Invalid job card ID")
	case errors.Is(err, db.ErrNotFound):
		writeError(w, http.StatusNotFound, "Job card not found")
	default:
		log.WithError(err).Error("job card operation failed")
		writeError(w, http.StatusInternalServerError, "Server error")
	}
}
