package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"parkease/internal/domain"
	"parkease/internal/middleware"
	"parkease/internal/service"
)

// SellerHandler handles HTTP requests for pricing rules and availability
// windows on a seller's lots.
type SellerHandler struct {
	pricingService      *service.PricingService
	availabilityService *service.AvailabilityService
}

// NewSellerHandler creates a new SellerHandler.
func NewSellerHandler(pricingService *service.PricingService, availabilityService *service.AvailabilityService) *SellerHandler {
	return &SellerHandler{
		pricingService:      pricingService,
		availabilityService: availabilityService,
	}
}

// CreateRuleRequest is the HTTP request body for defining a pricing rule.
type CreateRuleRequest struct {
	Name     string  `json:"name"`
	Rate     float64 `json:"rate"`
	RateType string  `json:"rate_type"` // HOURLY or FLAT
	Priority int     `json:"priority"`
}

// RuleResponse is the HTTP representation of a pricing rule.
type RuleResponse struct {
	ID       string  `json:"id"`
	LotID    string  `json:"lot_id"`
	Name     string  `json:"name"`
	Rate     float64 `json:"rate"`
	RateType string  `json:"rate_type"`
	IsActive bool    `json:"is_active"`
	Priority int     `json:"priority"`
}

// CreateRule handles POST /v1/lots/:id/pricing
func (h *SellerHandler) CreateRule(c *gin.Context) {
	var req CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	rule, err := h.pricingService.CreateRule(c.Request.Context(), service.CreateRuleRequest{
		OwnerUserID: middleware.UserID(c),
		LotID:       c.Param("id"),
		Name:        req.Name,
		Rate:        req.Rate,
		RateType:    domain.RateType(req.RateType),
		Priority:    req.Priority,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, ruleToResponse(rule))
}

// SetLotRateRequest is the HTTP request body for replacing a lot's rate.
type SetLotRateRequest struct {
	Rate     float64 `json:"rate"`
	RateType string  `json:"rate_type"` // HOURLY or FLAT
}

// SetLotRate handles PUT /v1/lots/:id/pricing
func (h *SellerHandler) SetLotRate(c *gin.Context) {
	var req SetLotRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	rule, err := h.pricingService.SetLotRate(c.Request.Context(), service.SetLotRateRequest{
		OwnerUserID: middleware.UserID(c),
		LotID:       c.Param("id"),
		Rate:        req.Rate,
		RateType:    domain.RateType(req.RateType),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, ruleToResponse(rule))
}

// ListRules handles GET /v1/lots/:id/pricing
func (h *SellerHandler) ListRules(c *gin.Context) {
	rules, err := h.pricingService.ListRules(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]RuleResponse, 0, len(rules))
	for _, rule := range rules {
		out = append(out, ruleToResponse(rule))
	}
	respondJSON(c, http.StatusOK, gin.H{"rules": out})
}

// DeactivateRule handles DELETE /v1/pricing/:id
func (h *SellerHandler) DeactivateRule(c *gin.Context) {
	if err := h.pricingService.DeactivateRule(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, gin.H{"status": "deactivated"})
}

// SetAvailabilityRequest is the HTTP request body for listing a window.
type SetAvailabilityRequest struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// WindowResponse is the HTTP representation of an availability window.
type WindowResponse struct {
	ID        string    `json:"id"`
	SpotID    string    `json:"spot_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status"`
	BookingID string    `json:"booking_id,omitempty"`
}

// SetAvailability handles POST /v1/spots/:id/availability
func (h *SellerHandler) SetAvailability(c *gin.Context) {
	var req SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	window, err := h.availabilityService.SetAvailability(c.Request.Context(), service.SetAvailabilityRequest{
		OwnerUserID: middleware.UserID(c),
		SpotID:      c.Param("id"),
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, windowToResponse(window))
}

// ListWindows handles GET /v1/spots/:id/availability
func (h *SellerHandler) ListWindows(c *gin.Context) {
	windows, err := h.availabilityService.ListWindows(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]WindowResponse, 0, len(windows))
	for _, window := range windows {
		out = append(out, windowToResponse(window))
	}
	respondJSON(c, http.StatusOK, gin.H{"windows": out})
}

// DeleteWindow handles DELETE /v1/availability/:id
func (h *SellerHandler) DeleteWindow(c *gin.Context) {
	if err := h.availabilityService.DeleteWindow(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, gin.H{"status": "deleted"})
}

func ruleToResponse(rule *domain.PricingRule) RuleResponse {
	return RuleResponse{
		ID:       rule.ID,
		LotID:    rule.LotID,
		Name:     rule.Name,
		Rate:     rule.Rate,
		RateType: string(rule.RateType),
		IsActive: rule.IsActive,
		Priority: rule.Priority,
	}
}

func windowToResponse(window *domain.AvailabilityWindow) WindowResponse {
	return WindowResponse{
		ID:        window.ID,
		SpotID:    window.SpotID,
		StartTime: window.StartTime,
		EndTime:   window.EndTime,
		Status:    string(window.Status),
		BookingID: window.BookingID,
	}
}
