package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"parkease/internal/domain"
	"parkease/internal/metrics"
	"parkease/internal/provider"
	"parkease/internal/redis"
	"parkease/internal/repository"
)

const (
	spotLockTTL = 10 * time.Second

	// maxSpotLockAttempts bounds the find-lock-verify loop when candidate
	// spots keep getting claimed by concurrent requests.
	maxSpotLockAttempts = 3
)

// BookingService handles the booking lifecycle: creation with a provisional
// hold, payment-driven confirmation with window splitting, cancellation and
// the pending-payment expiry sweep.
type BookingService struct {
	txManager       repository.TxManager
	bookingRepo     repository.BookingRepository
	availRepo       repository.AvailabilityRepository
	paymentRepo     repository.PaymentRepository
	userRepo        repository.UserRepository
	lotRepo         repository.LotRepository
	pricing         *PricingService
	lockStore       redis.LockStoreInterface
	paymentProvider provider.PaymentProvider
	notification    *NotificationService
	events          *EventLogger
	pendingTimeout  time.Duration
	currency        string
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	txManager repository.TxManager,
	bookingRepo repository.BookingRepository,
	availRepo repository.AvailabilityRepository,
	paymentRepo repository.PaymentRepository,
	userRepo repository.UserRepository,
	lotRepo repository.LotRepository,
	pricing *PricingService,
	lockStore redis.LockStoreInterface,
	paymentProvider provider.PaymentProvider,
	notification *NotificationService,
	events *EventLogger,
	pendingTimeout time.Duration,
	currency string,
) *BookingService {
	return &BookingService{
		txManager:       txManager,
		bookingRepo:     bookingRepo,
		availRepo:       availRepo,
		paymentRepo:     paymentRepo,
		userRepo:        userRepo,
		lotRepo:         lotRepo,
		pricing:         pricing,
		lockStore:       lockStore,
		paymentProvider: paymentProvider,
		notification:    notification,
		events:          events,
		pendingTimeout:  pendingTimeout,
		currency:        currency,
	}
}

// CreateBookingRequest contains the parameters for creating a booking.
type CreateBookingRequest struct {
	DriverUserID string
	LotID        string
	SpotType     domain.SpotType
	StartTime    time.Time
	EndTime      time.Time
	VehiclePlate string
}

// CreateBookingResponse contains the result of creating a booking.
type CreateBookingResponse struct {
	Booking         *domain.Booking
	Payment         *domain.Payment
	ProviderOrderID string
	Amount          float64
}

// CreateBooking allocates a spot in the lot, registers a payment order with
// the gateway and records a PENDING booking. The PENDING booking acts as a
// provisional hold: until it is confirmed, cancelled or times out, no other
// request can claim an overlapping range on the same spot.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*CreateBookingResponse, error) {
	if req.DriverUserID == "" {
		return nil, ErrInvalidUserID
	}
	if req.LotID == "" {
		return nil, ErrInvalidLotID
	}
	if req.SpotType != domain.SpotTypeCar && req.SpotType != domain.SpotTypeTwoWheeler {
		return nil, ErrInvalidSpotType
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, ErrInvalidTimeRange
	}

	rule, err := s.pricing.ResolveRate(ctx, req.LotID)
	if err != nil {
		return nil, err
	}
	amount := ComputePrice(rule, req.StartTime, req.EndTime)

	// Holds older than the pending timeout no longer block: the expiry
	// sweep will cancel them, and excluding them here means an abandoned
	// checkout cannot wedge a spot.
	holdCutoff := time.Now().Add(-s.pendingTimeout)

	// Lock, then verify. A candidate found outside the lock may have been
	// claimed by a concurrent request between the lookup and the acquire,
	// so the availability check is repeated under the lock before anything
	// is created. The lock is held until the PENDING booking is committed.
	var spot *domain.Spot
	for attempt := 0; attempt < maxSpotLockAttempts; attempt++ {
		candidate, err := s.availRepo.FindOpenSpot(ctx, req.LotID, req.SpotType, req.StartTime, req.EndTime, holdCutoff)
		if err != nil {
			if err == repository.ErrNotFound {
				return nil, ErrNoAvailability
			}
			return nil, err
		}

		locked, err := s.lockStore.AcquireSpotLock(ctx, candidate.ID, spotLockTTL)
		if err != nil {
			return nil, err
		}
		if !locked {
			continue
		}

		verified, err := s.availRepo.FindOpenSpot(ctx, req.LotID, req.SpotType, req.StartTime, req.EndTime, holdCutoff)
		if err != nil {
			_ = s.lockStore.ReleaseSpotLock(ctx, candidate.ID)
			if err == repository.ErrNotFound {
				return nil, ErrNoAvailability
			}
			return nil, err
		}
		if verified.ID != candidate.ID {
			// Candidate was claimed while unlocked; another spot is open.
			_ = s.lockStore.ReleaseSpotLock(ctx, candidate.ID)
			continue
		}

		spot = candidate
		break
	}
	if spot == nil {
		return nil, ErrSpotBusy
	}
	defer func() { _ = s.lockStore.ReleaseSpotLock(ctx, spot.ID) }()

	bookingID := uuid.New().String()

	orderID, err := s.paymentProvider.CreateOrder(ctx, toMinorUnits(amount), s.currency, map[string]string{
		"booking_id": bookingID,
		"lot_id":     req.LotID,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamProvider, err)
	}

	now := time.Now()
	booking := &domain.Booking{
		ID:           bookingID,
		DriverUserID: req.DriverUserID,
		LotID:        req.LotID,
		SpotID:       spot.ID,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Status:       domain.BookingStatusPending,
		VehiclePlate: req.VehiclePlate,
		CreatedAt:    now,
	}
	payment := domain.NewPayment(uuid.New().String(), bookingID, orderID, amount, now)

	err = s.txManager.WithinTx(ctx, func(tx *repository.Tx) error {
		if err := tx.Bookings.Create(ctx, booking); err != nil {
			return err
		}
		return tx.Payments.Create(ctx, payment)
	})
	if err != nil {
		return nil, err
	}

	metrics.IncBookingCreated()
	if s.events != nil {
		s.events.BookingCreated(booking.ID, booking.DriverUserID, booking.LotID, booking.SpotID, amount)
	}

	return &CreateBookingResponse{
		Booking:         booking,
		Payment:         payment,
		ProviderOrderID: orderID,
		Amount:          amount,
	}, nil
}

// ConfirmFromWebhook processes a payment-captured webhook: it marks the
// payment paid, confirms the booking, assigns its gate token and splits the
// covering availability window so the booked range can never be sold twice.
// The whole transition is one database transaction and is idempotent under
// webhook redelivery.
func (s *BookingService) ConfirmFromWebhook(ctx context.Context, event provider.WebhookEvent) error {
	if event.Event != provider.EventPaymentCaptured {
		return nil
	}

	orderID := event.Payload.Payment.Entity.OrderID
	providerPaymentID := event.Payload.Payment.Entity.ID

	payment, err := s.paymentRepo.GetByProviderOrderID(ctx, orderID)
	if err != nil {
		return err
	}
	if payment == nil {
		if s.events != nil {
			s.events.IntegrityViolation(orderID, "no payment for provider order")
		}
		return ErrIntegrity
	}

	if payment.Status != domain.PaymentStatusPending {
		// Redelivered webhook for an already-settled payment.
		return nil
	}

	booking, err := s.bookingRepo.GetByID(ctx, payment.BookingID)
	if err != nil {
		return err
	}

	switch booking.Status {
	case domain.BookingStatusConfirmed, domain.BookingStatusCompleted:
		return nil
	case domain.BookingStatusCancelled:
		// Money arrived for a booking that no longer holds a spot. The
		// payment stays PENDING so the ledger shows the mismatch.
		if s.events != nil {
			s.events.IntegrityViolation(orderID, "payment captured for cancelled booking "+booking.ID)
		}
		return ErrIntegrity
	}

	locked, err := s.lockStore.AcquireSpotLock(ctx, booking.SpotID, spotLockTTL)
	if err != nil {
		return err
	}
	if !locked {
		return ErrSpotBusy
	}
	defer func() { _ = s.lockStore.ReleaseSpotLock(ctx, booking.SpotID) }()

	didSplit := false
	var splitWindowID string
	var remainderBefore, remainderAfter bool
	err = s.txManager.WithinTx(ctx, func(tx *repository.Tx) error {
		if err := tx.Payments.MarkPaid(ctx, payment.ID, providerPaymentID); err != nil {
			return err
		}

		// Re-entrancy guard: a booked window already tied to this booking
		// means a previous delivery got as far as the split.
		existing, err := tx.Windows.FindBookedByBookingID(ctx, booking.ID)
		if err != nil {
			return err
		}

		if existing == nil {
			window, err := tx.Windows.FindContaining(ctx, booking.SpotID, booking.StartTime, booking.EndTime)
			if err != nil {
				if err == repository.ErrNotFound {
					return ErrWindowNotFound
				}
				return err
			}

			if err := tx.Windows.Delete(ctx, window.ID); err != nil {
				return err
			}
			for _, segment := range SplitWindow(window, booking.StartTime, booking.EndTime, booking.ID) {
				if err := tx.Windows.Create(ctx, segment); err != nil {
					return err
				}
			}
			didSplit = true
			splitWindowID = window.ID
			remainderBefore = window.StartTime.Before(booking.StartTime)
			remainderAfter = window.EndTime.After(booking.EndTime)
		}

		booking.Status = domain.BookingStatusConfirmed
		booking.QRCodeData = generateGateToken()
		return tx.Bookings.Update(ctx, booking)
	})
	if err != nil {
		return err
	}

	metrics.IncBookingConfirmed()
	if didSplit {
		metrics.IncWindowSplit()
	}
	if s.events != nil {
		if didSplit {
			s.events.WindowSplit(splitWindowID, booking.ID, remainderBefore, remainderAfter)
		}
		s.events.BookingConfirmed(booking.ID, payment.ID, providerPaymentID)
	}

	s.notifyConfirmed(ctx, booking)

	return nil
}

// notifyConfirmed sends the confirmation SMS. Delivery failures do not
// affect the already-committed confirmation.
func (s *BookingService) notifyConfirmed(ctx context.Context, booking *domain.Booking) {
	if s.notification == nil {
		return
	}

	user, err := s.userRepo.GetByID(ctx, booking.DriverUserID)
	if err != nil {
		return
	}

	lotName := booking.LotID
	if lot, err := s.lotRepo.GetByID(ctx, booking.LotID); err == nil {
		lotName = lot.Name
	}

	_ = s.notification.NotifyBookingConfirmed(ctx, user.Phone, booking, lotName)
}

// CancelBooking cancels a PENDING booking, releasing its provisional hold.
// Confirmed bookings occupy a booked window and cannot be cancelled.
func (s *BookingService) CancelBooking(ctx context.Context, driverUserID, bookingID string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.DriverUserID != driverUserID {
		return nil, ErrForbidden
	}

	if booking.Status != domain.BookingStatusPending {
		return nil, ErrBookingCannotBeCancelled
	}

	booking.Status = domain.BookingStatusCancelled
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}

	if s.events != nil {
		s.events.BookingCancelled(booking.ID, "cancelled by driver")
	}
	if s.notification != nil {
		if user, err := s.userRepo.GetByID(ctx, booking.DriverUserID); err == nil {
			_ = s.notification.NotifyBookingCancelled(ctx, user.Phone, booking.ID)
		}
	}

	return booking, nil
}

// ExpirePendingBookings cancels PENDING bookings whose payment window has
// lapsed. Run periodically; each sweep returns how many holds it released.
func (s *BookingService) ExpirePendingBookings(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-s.pendingTimeout)

	expired, err := s.bookingRepo.ListExpiredPending(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, booking := range expired {
		booking.Status = domain.BookingStatusCancelled
		if err := s.bookingRepo.Update(ctx, booking); err != nil {
			return count, err
		}
		count++

		if s.events != nil {
			s.events.BookingExpired(booking.ID)
		}
	}

	return count, nil
}

// GetBooking retrieves a booking the caller owns.
func (s *BookingService) GetBooking(ctx context.Context, driverUserID, bookingID string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.DriverUserID != driverUserID {
		return nil, ErrForbidden
	}

	return booking, nil
}

// MyBookings retrieves the caller's bookings, newest first.
func (s *BookingService) MyBookings(ctx context.Context, driverUserID string) ([]*repository.BookingListRow, error) {
	if driverUserID == "" {
		return nil, ErrInvalidUserID
	}
	return s.bookingRepo.ListByDriver(ctx, driverUserID)
}

// toMinorUnits converts a price to the gateway's integer minor units.
func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// generateGateToken mints a globally unique, URL-safe code for the gate QR.
func generateGateToken() string {
	return "pk_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}
