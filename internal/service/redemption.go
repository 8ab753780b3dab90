package service

import (
	"context"
	"time"

	"parkease/internal/domain"
	"parkease/internal/repository"
)

// RedemptionService handles gate-side QR validation.
type RedemptionService struct {
	bookingRepo repository.BookingRepository
	lotRepo     repository.LotRepository
	userRepo    repository.UserRepository
	events      *EventLogger

	// now is swappable for boundary tests.
	now func() time.Time
}

// NewRedemptionService creates a new RedemptionService.
func NewRedemptionService(
	bookingRepo repository.BookingRepository,
	lotRepo repository.LotRepository,
	userRepo repository.UserRepository,
	events *EventLogger,
) *RedemptionService {
	return &RedemptionService{
		bookingRepo: bookingRepo,
		lotRepo:     lotRepo,
		userRepo:    userRepo,
		events:      events,
		now:         time.Now,
	}
}

// NewRedemptionServiceWithClock creates a RedemptionService with a fixed
// clock. Used by boundary tests.
func NewRedemptionServiceWithClock(
	bookingRepo repository.BookingRepository,
	lotRepo repository.LotRepository,
	userRepo repository.UserRepository,
	events *EventLogger,
	now func() time.Time,
) *RedemptionService {
	s := NewRedemptionService(bookingRepo, lotRepo, userRepo, events)
	s.now = now
	return s
}

// RedeemResult is what the gate attendant sees after a successful scan.
type RedeemResult struct {
	Booking    *domain.Booking
	DriverName string
}

// Redeem validates a gate token scanned at a lot the caller owns. A valid
// scan completes the booking, so the token is single use: scanning the same
// code again reports it as already redeemed. Both ends of the booked window
// are inclusive; a scan exactly at the start or end admits the vehicle.
func (s *RedemptionService) Redeem(ctx context.Context, scannerUserID, qrCodeData string) (*RedeemResult, error) {
	if qrCodeData == "" {
		return nil, ErrQRNotFound
	}

	booking, err := s.bookingRepo.GetByQRCode(ctx, qrCodeData)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrQRNotFound
		}
		return nil, err
	}

	lot, err := s.lotRepo.GetByID(ctx, booking.LotID)
	if err != nil {
		return nil, err
	}
	if lot.OwnerUserID != scannerUserID {
		return nil, ErrForbidden
	}

	switch booking.Status {
	case domain.BookingStatusCompleted:
		return nil, ErrAlreadyRedeemed
	case domain.BookingStatusConfirmed:
		// Proceed to the time check.
	default:
		return nil, ErrBookingNotConfirmed
	}

	now := s.now()
	if now.Before(booking.StartTime) {
		return nil, ErrTooEarly
	}
	if now.After(booking.EndTime) {
		return nil, ErrExpired
	}

	booking.Status = domain.BookingStatusCompleted
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}

	// The attendant needs a name to greet the driver with; a missing user
	// row should not fail an otherwise valid scan.
	driverName := ""
	if driver, err := s.userRepo.GetByID(ctx, booking.DriverUserID); err == nil {
		driverName = driver.Name
	}

	if s.events != nil {
		s.events.BookingRedeemed(booking.ID, scannerUserID)
	}

	return &RedeemResult{Booking: booking, DriverName: driverName}, nil
}
