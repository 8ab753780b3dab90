package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"parkease/internal/domain"
	"parkease/internal/service"
)

// SearchHandler handles HTTP requests for availability search.
type SearchHandler struct {
	searchService *service.SearchService
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(searchService *service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// SearchResultResponse is one lot in the search results.
type SearchResultResponse struct {
	LotID      string  `json:"lot_id"`
	Name       string  `json:"name"`
	Address    string  `json:"address"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	DistanceKm float64 `json:"distance_km"`
	Rate       float64 `json:"rate"`
	RateType   string  `json:"rate_type"`
	TotalPrice float64 `json:"total_price"`
}

// Search handles GET /v1/search
// Query parameters: lat, lng, radius_km (optional), spot_type, start, end (RFC 3339).
func (h *SearchHandler) Search(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid lat"})
		return
	}

	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid lng"})
		return
	}

	radiusKm := 0.0
	if raw := c.Query("radius_km"); raw != "" {
		radiusKm, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid radius_km"})
			return
		}
	}

	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid start time"})
		return
	}

	end, err := time.Parse(time.RFC3339, c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid end time"})
		return
	}

	results, err := h.searchService.Search(c.Request.Context(), service.SearchRequest{
		Latitude:  lat,
		Longitude: lng,
		RadiusKm:  radiusKm,
		SpotType:  domain.SpotType(c.Query("spot_type")),
		StartTime: start,
		EndTime:   end,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]SearchResultResponse, 0, len(results))
	for _, r := range results {
		out = append(out, SearchResultResponse{
			LotID:      r.LotID,
			Name:       r.Name,
			Address:    r.Address,
			Latitude:   r.Latitude,
			Longitude:  r.Longitude,
			DistanceKm: r.DistanceKm,
			Rate:       r.Rate,
			RateType:   string(r.RateType),
			TotalPrice: r.TotalPrice,
		})
	}

	respondJSON(c, http.StatusOK, gin.H{"results": out})
}
