package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"parkease/internal/middleware"
	"parkease/internal/service"
)

// ReviewHandler handles HTTP requests for lot reviews.
type ReviewHandler struct {
	reviewService *service.ReviewService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewService *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// CreateReviewRequest is the HTTP request body for reviewing a booking.
type CreateReviewRequest struct {
	BookingID string `json:"booking_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
}

// ReviewResponse is the HTTP representation of a review.
type ReviewResponse struct {
	ID           string    `json:"id"`
	BookingID    string    `json:"booking_id"`
	LotID        string    `json:"lot_id"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment,omitempty"`
	ReviewerName string    `json:"reviewer_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateReview handles POST /v1/reviews
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	review, err := h.reviewService.CreateReview(c.Request.Context(), service.CreateReviewRequest{
		ReviewerID: middleware.UserID(c),
		BookingID:  req.BookingID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, ReviewResponse{
		ID:        review.ID,
		BookingID: review.BookingID,
		LotID:     review.LotID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
	})
}

// ListLotReviews handles GET /v1/lots/:id/reviews
func (h *ReviewHandler) ListLotReviews(c *gin.Context) {
	rows, err := h.reviewService.ListLotReviews(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]ReviewResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, ReviewResponse{
			ID:           row.Review.ID,
			BookingID:    row.Review.BookingID,
			LotID:        row.Review.LotID,
			Rating:       row.Review.Rating,
			Comment:      row.Review.Comment,
			ReviewerName: row.ReviewerName,
			CreatedAt:    row.Review.CreatedAt,
		})
	}
	respondJSON(c, http.StatusOK, gin.H{"reviews": out})
}
