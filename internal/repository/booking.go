package repository

import (
	"context"
	"time"

	"parkease/internal/domain"
)

// BookingListRow is a booking joined with its lot details, for driver-facing
// booking lists.
type BookingListRow struct {
	Booking    *domain.Booking
	LotName    string
	LotAddress string
}

// BookingRepository defines the persistence operations for bookings.
type BookingRepository interface {
	// Create persists a new booking.
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByID retrieves a booking by ID.
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// GetByQRCode retrieves a booking by its gate token.
	GetByQRCode(ctx context.Context, qrCodeData string) (*domain.Booking, error)

	// Update updates an existing booking.
	Update(ctx context.Context, booking *domain.Booking) error

	// ListByDriver retrieves a driver's bookings, newest first, with lot details.
	ListByDriver(ctx context.Context, driverUserID string) ([]*BookingListRow, error)

	// ListExpiredPending retrieves PENDING bookings created before cutoff.
	ListExpiredPending(ctx context.Context, cutoff time.Time) ([]*domain.Booking, error)
}
