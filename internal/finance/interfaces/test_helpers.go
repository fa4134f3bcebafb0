package interfaces

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"financeapp/internal/apperrors"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	})
}

func parsePathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// mapServiceError translates the shared error taxonomy into an HTTP status.
// Unknown errors stay opaque to the client.
func mapServiceError(respond func(w http.ResponseWriter, status int, message string), w http.ResponseWriter, err error) {
	switch {
	case apperrors.IsValidationError(err):
		respond(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrForbidden):
		respond(w, http.StatusForbidden, "You do not have access to this resource")
	case errors.Is(err, apperrors.ErrNotFound):
		respond(w, http.StatusNotFound, "Resource not found")
	default:
		respond(w, http.StatusInternalServerError, "Internal server error")
	}
}
