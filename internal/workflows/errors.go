package workflows

import (
	"errors"
	"net/http"
)

// Domain errors for workflow operations.
var (
	// ErrNotFound covers both missing workflows and workflows owned by another principal.
	ErrNotFound   = errors.New("workflow not found")
	ErrDuplicate  = errors.New("workflow already exists")
	ErrValidation = errors.New("invalid workflow")
)

// MapHTTPStatus maps domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
