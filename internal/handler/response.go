package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Steerify/Suretruqs-sub000/internal/backend"
	"github.com/Steerify/Suretruqs-sub000/internal/domain"
	syncpkg "github.com/Steerify/Suretruqs-sub000/internal/sync"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps sync/backend/domain errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, backend.ErrNotFound),
		errors.Is(err, syncpkg.ErrShipmentNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, syncpkg.ErrEmptyMessage),
		errors.Is(err, syncpkg.ErrInvalidRating):
		return http.StatusBadRequest

	// Conflict errors - the lifecycle refused the move
	case errors.Is(err, domain.ErrIllegalTransition),
		errors.Is(err, domain.ErrAssignmentPending),
		errors.Is(err, domain.ErrTerminalStatus),
		errors.Is(err, syncpkg.ErrNotDelivered):
		return http.StatusConflict

	// No usable session
	case errors.Is(err, syncpkg.ErrNoSession),
		errors.Is(err, backend.ErrUnauthorized):
		return http.StatusUnauthorized

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
