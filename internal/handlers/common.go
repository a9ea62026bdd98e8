package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"petcare-backend/internal/qr"
	"petcare-backend/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// decodeBody parses a JSON body into dst and validates it. An empty body
// leaves dst as is.
func decodeBody(w http.ResponseWriter, r *http.Request, v *validator.Validate, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	if err := v.Struct(dst); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// respondServiceError maps service errors to HTTP statuses. Unexpected
// errors are logged with msg and answered with a generic 500.
func respondServiceError(w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		respondError(w, "Not found", http.StatusNotFound)
	case errors.Is(err, services.ErrForbidden):
		respondError(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, services.ErrValidation):
		respondError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrConflict):
		respondError(w, "Already exists", http.StatusConflict)
	case errors.Is(err, qr.ErrUnsupportedFormat):
		respondError(w, err.Error(), http.StatusBadRequest)
	default:
		log.Error().Err(err).Msg(msg)
		respondError(w, msg, http.StatusInternalServerError)
	}
}
