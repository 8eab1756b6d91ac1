package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for common cases
var (
	ErrNotFound   = errors.New("resource not found")
	ErrValidation = errors.New("validation error")
)

// AppError wraps errors with HTTP status and user-friendly message
type AppError struct {
	Err        error  // Original error (for logging)
	Message    string // User-friendly message
	StatusCode int    // HTTP status code
	Field      string // Optional field name for validation errors
}

func (e *AppError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Constructor functions for common errors

func NotFound(resource string) *AppError {
	return &AppError{
		Err:        ErrNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		StatusCode: http.StatusNotFound,
	}
}

func BadRequest(message string) *AppError {
	return &AppError{
		Err:        ErrValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func ValidationError(field, message string) *AppError {
	return &AppError{
		Err:        ErrValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Field:      field,
	}
}

func Internal(err error) *AppError {
	return &AppError{
		Err:        err,
		Message:    "an internal error occurred",
		StatusCode: http.StatusInternalServerError,
	}
}

// GetStatusCode extracts HTTP status from error, defaults to 500
func GetStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
