package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"parkease/internal/domain"
	"parkease/internal/repository"
)

// ReviewService handles driver reviews of lots.
type ReviewService struct {
	reviewRepo  repository.ReviewRepository
	bookingRepo repository.BookingRepository
}

// NewReviewService creates a new ReviewService.
func NewReviewService(reviewRepo repository.ReviewRepository, bookingRepo repository.BookingRepository) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		bookingRepo: bookingRepo,
	}
}

// CreateReviewRequest contains the parameters for reviewing a booking.
type CreateReviewRequest struct {
	ReviewerID string
	BookingID  string
	Rating     int
	Comment    string
}

// CreateReview records a rating for a completed booking. One review per
// booking, and only the driver who parked can leave it.
func (s *ReviewService) CreateReview(ctx context.Context, req CreateReviewRequest) (*domain.Review, error) {
	if req.BookingID == "" {
		return nil, ErrInvalidBookingID
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}

	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	if booking.DriverUserID != req.ReviewerID {
		return nil, ErrForbidden
	}

	if booking.Status != domain.BookingStatusCompleted {
		return nil, ErrBookingNotCompleted
	}

	existing, err := s.reviewRepo.GetByBookingID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyReviewed
	}

	review := &domain.Review{
		ID:         uuid.New().String(),
		BookingID:  req.BookingID,
		ReviewerID: req.ReviewerID,
		LotID:      booking.LotID,
		Rating:     req.Rating,
		Comment:    req.Comment,
		CreatedAt:  time.Now(),
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

// ListLotReviews retrieves all reviews for a lot with reviewer names.
func (s *ReviewService) ListLotReviews(ctx context.Context, lotID string) ([]*repository.ReviewListRow, error) {
	if lotID == "" {
		return nil, ErrInvalidLotID
	}
	return s.reviewRepo.ListByLot(ctx, lotID)
}
