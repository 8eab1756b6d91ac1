package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/michel-reyes/coin-copilot/internal/apperror"
	"github.com/michel-reyes/coin-copilot/internal/service"
)

// ErrorResponse represents a JSON error response body.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// respondJSON writes a JSON response with the given status code.
// It sets the Content-Type header to application/json.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// respondError writes a JSON error response with the given status code and message.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondAppError writes a JSON error response from an AppError.
// It extracts the status code and message from the error.
func respondAppError(w http.ResponseWriter, err *apperror.AppError) {
	resp := ErrorResponse{
		Error: err.Message,
		Field: err.Field,
	}
	respondJSON(w, err.StatusCode, resp)
}

// respondServiceError maps service-layer errors to HTTP responses: validation
// errors become 400, not-found becomes 404, anything else 500.
func respondServiceError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		respondAppError(w, appErr)
		return
	}

	switch {
	case errors.Is(err, apperror.ErrNotFound),
		errors.Is(err, service.ErrEventNotFound),
		errors.Is(err, service.ErrScheduleNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrInvalidEventType),
		errors.Is(err, service.ErrInvalidRecurrence),
		errors.Is(err, service.ErrMissingInterval),
		errors.Is(err, service.ErrInvalidNotificationTime),
		errors.Is(err, service.ErrInvalidDaysBefore):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "an internal error occurred")
	}
}
