package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"parkease/internal/domain"
	"parkease/internal/middleware"
	"parkease/internal/provider"
	"parkease/internal/service"
)

// BookingHandler handles HTTP requests for bookings and the payment webhook.
type BookingHandler struct {
	bookingService  *service.BookingService
	paymentProvider provider.PaymentProvider
	log             zerolog.Logger
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService *service.BookingService, paymentProvider provider.PaymentProvider, log zerolog.Logger) *BookingHandler {
	return &BookingHandler{
		bookingService:  bookingService,
		paymentProvider: paymentProvider,
		log:             log,
	}
}

// CreateBookingRequest is the HTTP request body for creating a booking.
type CreateBookingRequest struct {
	LotID        string    `json:"lot_id"`
	SpotType     string    `json:"spot_type"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	VehiclePlate string    `json:"vehicle_plate,omitempty"`
}

// CreateBookingResponse is the HTTP response for creating a booking.
type CreateBookingResponse struct {
	BookingID       string    `json:"booking_id"`
	SpotID          string    `json:"spot_id"`
	Status          string    `json:"status"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	Amount          float64   `json:"amount"`
	ProviderOrderID string    `json:"provider_order_id"`
}

// CreateBooking handles POST /v1/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.bookingService.CreateBooking(c.Request.Context(), service.CreateBookingRequest{
		DriverUserID: middleware.UserID(c),
		LotID:        req.LotID,
		SpotType:     domain.SpotType(req.SpotType),
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		VehiclePlate: req.VehiclePlate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, CreateBookingResponse{
		BookingID:       result.Booking.ID,
		SpotID:          result.Booking.SpotID,
		Status:          string(result.Booking.Status),
		StartTime:       result.Booking.StartTime,
		EndTime:         result.Booking.EndTime,
		Amount:          result.Amount,
		ProviderOrderID: result.ProviderOrderID,
	})
}

// BookingResponse is the HTTP representation of a booking.
type BookingResponse struct {
	ID           string    `json:"id"`
	LotID        string    `json:"lot_id"`
	SpotID       string    `json:"spot_id"`
	Status       string    `json:"status"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	QRCodeData   string    `json:"qr_code_data,omitempty"`
	VehiclePlate string    `json:"vehicle_plate,omitempty"`
	LotName      string    `json:"lot_name,omitempty"`
	LotAddress   string    `json:"lot_address,omitempty"`
}

// GetBooking handles GET /v1/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	booking, err := h.bookingService.GetBooking(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, bookingToResponse(booking, "", ""))
}

// MyBookings handles GET /v1/bookings
func (h *BookingHandler) MyBookings(c *gin.Context) {
	rows, err := h.bookingService.MyBookings(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]BookingResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, bookingToResponse(row.Booking, row.LotName, row.LotAddress))
	}
	respondJSON(c, http.StatusOK, gin.H{"bookings": out})
}

// CancelBooking handles POST /v1/bookings/:id/cancel
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	booking, err := h.bookingService.CancelBooking(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, bookingToResponse(booking, "", ""))
}

// PaymentWebhook handles POST /webhooks/payment
//
// The gateway retries on non-2xx, so the handler acknowledges everything it
// has durably recorded, including integrity violations: retrying a webhook
// for a cancelled booking will never make it reconcilable. Only transient
// contention returns an error status.
func (h *BookingHandler) PaymentWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unreadable body"})
		return
	}

	signature := c.GetHeader("X-Razorpay-Signature")
	if !h.paymentProvider.VerifyWebhookSignature(body, signature) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid signature"})
		return
	}

	var event provider.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid payload"})
		return
	}

	if err := h.bookingService.ConfirmFromWebhook(c.Request.Context(), event); err != nil {
		switch {
		case errors.Is(err, service.ErrIntegrity), errors.Is(err, service.ErrWindowNotFound):
			h.log.Error().Err(err).Str("event", event.Event).Msg("webhook acknowledged with integrity violation")
			respondJSON(c, http.StatusOK, gin.H{"status": "acknowledged"})
		case errors.Is(err, service.ErrSpotBusy):
			// Let the gateway redeliver once the lock clears.
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "busy, retry"})
		default:
			respondError(c, err)
		}
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"status": "ok"})
}

func bookingToResponse(b *domain.Booking, lotName, lotAddress string) BookingResponse {
	return BookingResponse{
		ID:           b.ID,
		LotID:        b.LotID,
		SpotID:       b.SpotID,
		Status:       string(b.Status),
		StartTime:    b.StartTime,
		EndTime:      b.EndTime,
		QRCodeData:   b.QRCodeData,
		VehiclePlate: b.VehiclePlate,
		LotName:      lotName,
		LotAddress:   lotAddress,
	}
}
