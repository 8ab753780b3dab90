package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"parkease/internal/repository"
	"parkease/internal/service"
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

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrQRNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidUserID),
		errors.Is(err, service.ErrInvalidPhone),
		errors.Is(err, service.ErrInvalidLotID),
		errors.Is(err, service.ErrInvalidSpotID),
		errors.Is(err, service.ErrInvalidBookingID),
		errors.Is(err, service.ErrInvalidLocation),
		errors.Is(err, service.ErrInvalidTimeRange),
		errors.Is(err, service.ErrInvalidRate),
		errors.Is(err, service.ErrInvalidRateType),
		errors.Is(err, service.ErrInvalidSpotType),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrAddressNotFound),
		errors.Is(err, service.ErrNoPayoutAccount):
		return http.StatusBadRequest

	// Authentication errors
	case errors.Is(err, service.ErrInvalidOTP),
		errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized

	// Forbidden errors
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrNotSeller):
		return http.StatusForbidden

	// Conflict errors
	case errors.Is(err, service.ErrWindowOverlap),
		errors.Is(err, service.ErrBookingNotPending),
		errors.Is(err, service.ErrBookingNotConfirmed),
		errors.Is(err, service.ErrBookingCannotBeCancelled),
		errors.Is(err, service.ErrBookingNotCompleted),
		errors.Is(err, service.ErrAlreadyRedeemed),
		errors.Is(err, service.ErrAlreadyReviewed),
		errors.Is(err, service.ErrTooEarly),
		errors.Is(err, service.ErrExpired),
		errors.Is(err, service.ErrSettlementInProgress):
		return http.StatusConflict

	// No capacity
	case errors.Is(err, service.ErrNoAvailability),
		errors.Is(err, service.ErrNoActiveRate):
		return http.StatusUnprocessableEntity

	// Transient contention - retryable
	case errors.Is(err, service.ErrSpotBusy):
		return http.StatusServiceUnavailable

	// Upstream gateway failure
	case errors.Is(err, service.ErrUpstreamProvider):
		return http.StatusBadGateway

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
