package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"parkease/internal/domain"
	"parkease/internal/middleware"
	"parkease/internal/service"
)

// LotHandler handles HTTP requests for lot and spot management.
type LotHandler struct {
	lotService *service.LotService
}

// NewLotHandler creates a new LotHandler.
func NewLotHandler(lotService *service.LotService) *LotHandler {
	return &LotHandler{lotService: lotService}
}

// CreateLotRequest is the HTTP request body for registering a lot.
type CreateLotRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// LotResponse is the HTTP representation of a lot.
type LotResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CreateLot handles POST /v1/lots
func (h *LotHandler) CreateLot(c *gin.Context) {
	var req CreateLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	lot, err := h.lotService.CreateLot(c.Request.Context(), service.CreateLotRequest{
		OwnerUserID: middleware.UserID(c),
		Name:        req.Name,
		Address:     req.Address,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, lotToResponse(lot))
}

// MyLots handles GET /v1/lots
func (h *LotHandler) MyLots(c *gin.Context) {
	lots, err := h.lotService.MyLots(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]LotResponse, 0, len(lots))
	for _, lot := range lots {
		out = append(out, lotToResponse(lot))
	}
	respondJSON(c, http.StatusOK, gin.H{"lots": out})
}

// GetLot handles GET /v1/lots/:id
func (h *LotHandler) GetLot(c *gin.Context) {
	lot, err := h.lotService.GetLot(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, lotToResponse(lot))
}

// AddSpotRequest is the HTTP request body for adding a spot.
type AddSpotRequest struct {
	Name     string `json:"name"`
	SpotType string `json:"spot_type"` // CAR or TWO_WHEELER
}

// SpotResponse is the HTTP representation of a spot.
type SpotResponse struct {
	ID       string `json:"id"`
	LotID    string `json:"lot_id"`
	Name     string `json:"name"`
	SpotType string `json:"spot_type"`
}

// AddSpot handles POST /v1/lots/:id/spots
func (h *LotHandler) AddSpot(c *gin.Context) {
	var req AddSpotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	spot, err := h.lotService.AddSpot(c.Request.Context(), service.AddSpotRequest{
		OwnerUserID: middleware.UserID(c),
		LotID:       c.Param("id"),
		Name:        req.Name,
		SpotType:    domain.SpotType(req.SpotType),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, SpotResponse{
		ID:       spot.ID,
		LotID:    spot.LotID,
		Name:     spot.Name,
		SpotType: string(spot.SpotType),
	})
}

// ListSpots handles GET /v1/lots/:id/spots
func (h *LotHandler) ListSpots(c *gin.Context) {
	spots, err := h.lotService.ListSpots(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]SpotResponse, 0, len(spots))
	for _, spot := range spots {
		out = append(out, SpotResponse{
			ID:       spot.ID,
			LotID:    spot.LotID,
			Name:     spot.Name,
			SpotType: string(spot.SpotType),
		})
	}
	respondJSON(c, http.StatusOK, gin.H{"spots": out})
}

func lotToResponse(lot *domain.Lot) LotResponse {
	return LotResponse{
		ID:        lot.ID,
		Name:      lot.Name,
		Address:   lot.Address,
		Latitude:  lot.Latitude,
		Longitude: lot.Longitude,
	}
}
