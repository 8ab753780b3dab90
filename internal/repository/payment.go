package repository

import (
	"context"

	"parkease/internal/domain"
)

// PayoutItem is a settleable payment joined with the seller who is owed it.
type PayoutItem struct {
	PaymentID    string
	BookingID    string
	SellerUserID string
	SellerPhone  string
	Amount       float64 // seller payout amount
}

// PaymentRepository defines the persistence operations for payments.
type PaymentRepository interface {
	// Create persists a new payment.
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByID retrieves a payment by ID.
	GetByID(ctx context.Context, id string) (*domain.Payment, error)

	// GetByProviderOrderID retrieves a payment by the provider's order reference.
	// Returns nil (no error) when no payment exists for the order.
	GetByProviderOrderID(ctx context.Context, orderID string) (*domain.Payment, error)

	// GetByBookingID retrieves the payment tied to a booking.
	GetByBookingID(ctx context.Context, bookingID string) (*domain.Payment, error)

	// MarkPaid advances a payment to PAID_BY_DRIVER and records the
	// provider's payment ID.
	MarkPaid(ctx context.Context, id, providerPaymentID string) error

	// ListDueForPayout retrieves all PAID_BY_DRIVER payments joined with the
	// owner of the booked lot.
	ListDueForPayout(ctx context.Context) ([]*PayoutItem, error)

	// MarkPaidOut advances the given payments to PAYOUT_TO_SELLER_COMPLETE.
	MarkPaidOut(ctx context.Context, paymentIDs []string) error
}
