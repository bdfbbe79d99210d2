package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"carpool/internal/repository"
	"carpool/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error(), Code: code})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
// Capacity overruns are request-validation failures here, not conflicts.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrMissingTripFields),
		errors.Is(err, service.ErrSeatsNotPositive),
		errors.Is(err, service.ErrPriceNotPositive),
		errors.Is(err, service.ErrMissingReservationFields),
		errors.Is(err, service.ErrStopCountMismatch),
		errors.Is(err, service.ErrNotEnoughSeats),
		errors.Is(err, service.ErrAlreadyReserved),
		errors.Is(err, service.ErrNoActiveReservation),
		errors.Is(err, repository.ErrDuplicate):
		return http.StatusBadRequest

	// Authorization errors
	case errors.Is(err, service.ErrNotDriver),
		errors.Is(err, service.ErrNotTripOwner):
		return http.StatusForbidden

	// Default to internal server error (storage failures, exhausted retries)
	default:
		return http.StatusInternalServerError
	}
}
