package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"parkease/internal/middleware"
	"parkease/internal/service"
)

// AuthHandler handles HTTP requests for phone-based login.
type AuthHandler struct {
	accountService *service.AccountService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(accountService *service.AccountService) *AuthHandler {
	return &AuthHandler{accountService: accountService}
}

// RequestOTPRequest is the HTTP request body for requesting a login code.
type RequestOTPRequest struct {
	Phone string `json:"phone"`
}

// RequestOTP handles POST /v1/auth/otp
func (h *AuthHandler) RequestOTP(c *gin.Context) {
	var req RequestOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.accountService.RequestOTP(c.Request.Context(), req.Phone); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"status": "otp_sent"})
}

// VerifyOTPRequest is the HTTP request body for verifying a login code.
type VerifyOTPRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
	Name  string `json:"name,omitempty"`
}

// VerifyOTPResponse is the HTTP response for a successful login.
type VerifyOTPResponse struct {
	Token     string `json:"token"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	IsNewUser bool   `json:"is_new_user"`
}

// VerifyOTP handles POST /v1/auth/verify
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.accountService.VerifyOTP(c.Request.Context(), req.Phone, req.Code, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, VerifyOTPResponse{
		Token:     result.Token,
		UserID:    result.User.ID,
		Name:      result.User.Name,
		Role:      string(result.User.Role),
		IsNewUser: result.IsNewUser,
	})
}

// MeResponse is the HTTP response for the current user's profile.
type MeResponse struct {
	UserID string `json:"user_id"`
	Phone  string `json:"phone"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// Me handles GET /v1/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.accountService.GetUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, MeResponse{
		UserID: user.ID,
		Phone:  user.Phone,
		Name:   user.Name,
		Role:   string(user.Role),
	})
}
