package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"parkease/internal/middleware"
	"parkease/internal/service"
)

// PayoutHandler handles HTTP requests for payout accounts and settlement.
type PayoutHandler struct {
	payoutService *service.PayoutService
}

// NewPayoutHandler creates a new PayoutHandler.
func NewPayoutHandler(payoutService *service.PayoutService) *PayoutHandler {
	return &PayoutHandler{payoutService: payoutService}
}

// LinkAccountRequest is the HTTP request body for linking a payout account.
type LinkAccountRequest struct {
	AccountType string `json:"account_type"` // upi or bank_account
	AccountRef  string `json:"account_ref"`
}

// AccountResponse is the HTTP representation of a payout account.
type AccountResponse struct {
	ID          string `json:"id"`
	AccountType string `json:"account_type"`
	AccountRef  string `json:"account_ref"`
}

// LinkAccount handles POST /v1/payout-account
func (h *PayoutHandler) LinkAccount(c *gin.Context) {
	var req LinkAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	account, err := h.payoutService.LinkPayoutAccount(c.Request.Context(), service.LinkPayoutAccountRequest{
		UserID:      middleware.UserID(c),
		AccountType: req.AccountType,
		AccountRef:  req.AccountRef,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, AccountResponse{
		ID:          account.ID,
		AccountType: account.AccountType,
		AccountRef:  account.AccountRef,
	})
}

// GetAccount handles GET /v1/payout-account
func (h *PayoutHandler) GetAccount(c *gin.Context) {
	account, err := h.payoutService.GetPayoutAccount(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, AccountResponse{
		ID:          account.ID,
		AccountType: account.AccountType,
		AccountRef:  account.AccountRef,
	})
}

// BatchSettleResponse is the HTTP response for a settlement run.
type BatchSettleResponse struct {
	SellersSettled int     `json:"sellers_settled"`
	SellersSkipped int     `json:"sellers_skipped"`
	SellersFailed  int     `json:"sellers_failed"`
	PaymentsMarked int     `json:"payments_marked"`
	TotalAmount    float64 `json:"total_amount"`
}

// BatchSettle handles POST /admin/payouts/settle
func (h *PayoutHandler) BatchSettle(c *gin.Context) {
	result, err := h.payoutService.BatchSettle(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, BatchSettleResponse{
		SellersSettled: result.SellersSettled,
		SellersSkipped: result.SellersSkipped,
		SellersFailed:  result.SellersFailed,
		PaymentsMarked: result.PaymentsMarked,
		TotalAmount:    result.TotalAmount,
	})
}
