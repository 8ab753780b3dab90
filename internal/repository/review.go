package repository

import (
	"context"

	"parkease/internal/domain"
)

// ReviewListRow is a review joined with the reviewer's name.
type ReviewListRow struct {
	Review       *domain.Review
	ReviewerName string
}

// ReviewRepository defines the persistence operations for reviews.
type ReviewRepository interface {
	// Create persists a new review.
	Create(ctx context.Context, review *domain.Review) error

	// GetByBookingID retrieves the review for a booking.
	// Returns nil (no error) when the booking has not been reviewed.
	GetByBookingID(ctx context.Context, bookingID string) (*domain.Review, error)

	// ListByLot retrieves all reviews for a lot with reviewer names.
	ListByLot(ctx context.Context, lotID string) ([]*ReviewListRow, error)
}
