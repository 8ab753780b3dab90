package repository

import (
	"context"
	"time"

	"parkease/internal/domain"
)

// AvailabilityRepository defines the persistence operations for
// spot availability windows.
type AvailabilityRepository interface {
	// Create persists a new availability window.
	Create(ctx context.Context, window *domain.AvailabilityWindow) error

	// GetByID retrieves a window by ID.
	GetByID(ctx context.Context, id string) (*domain.AvailabilityWindow, error)

	// Delete removes a window by ID.
	Delete(ctx context.Context, id string) error

	// ListBySpot retrieves all windows for a spot ordered by start time.
	ListBySpot(ctx context.Context, spotID string) ([]*domain.AvailabilityWindow, error)

	// FindContaining retrieves the AVAILABLE window for the spot that fully
	// contains [start, end]. Returns ErrNotFound when no such window exists.
	FindContaining(ctx context.Context, spotID string, start, end time.Time) (*domain.AvailabilityWindow, error)

	// FindBookedByBookingID retrieves the BOOKED window created for a booking.
	// Returns nil (no error) when the booking has no window yet.
	FindBookedByBookingID(ctx context.Context, bookingID string) (*domain.AvailabilityWindow, error)

	// FindOpenSpot returns one spot in the lot of the given type whose
	// AVAILABLE window fully contains [start, end], excluding spots that have
	// an overlapping PENDING booking created after holdCutoff (a provisional
	// hold that has not yet expired). Returns ErrNotFound when none qualifies.
	FindOpenSpot(ctx context.Context, lotID string, spotType domain.SpotType, start, end time.Time, holdCutoff time.Time) (*domain.Spot, error)
}
