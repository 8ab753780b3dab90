package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"parkease/internal/middleware"
	"parkease/internal/service"
)

// RedemptionHandler handles HTTP requests for gate-side QR scans.
type RedemptionHandler struct {
	redemptionService *service.RedemptionService
}

// NewRedemptionHandler creates a new RedemptionHandler.
func NewRedemptionHandler(redemptionService *service.RedemptionService) *RedemptionHandler {
	return &RedemptionHandler{redemptionService: redemptionService}
}

// RedeemRequest is the HTTP request body for redeeming a gate token.
type RedeemRequest struct {
	QRCodeData string `json:"qr_code_data"`
}

// RedeemResponse is the HTTP response for a successful scan.
type RedeemResponse struct {
	BookingID    string    `json:"booking_id"`
	SpotID       string    `json:"spot_id"`
	DriverName   string    `json:"driver_name,omitempty"`
	VehiclePlate string    `json:"vehicle_plate,omitempty"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Status       string    `json:"status"`
}

// Redeem handles POST /v1/redeem
func (h *RedemptionHandler) Redeem(c *gin.Context) {
	var req RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.redemptionService.Redeem(c.Request.Context(), middleware.UserID(c), req.QRCodeData)
	if err != nil {
		respondError(c, err)
		return
	}

	booking := result.Booking
	respondJSON(c, http.StatusOK, RedeemResponse{
		BookingID:    booking.ID,
		SpotID:       booking.SpotID,
		DriverName:   result.DriverName,
		VehiclePlate: booking.VehiclePlate,
		StartTime:    booking.StartTime,
		EndTime:      booking.EndTime,
		Status:       string(booking.Status),
	})
}
