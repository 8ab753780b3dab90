package domain

import "time"

// PaymentStatus represents the current status of a payment.
// Status only ever advances forward.
type PaymentStatus string

const (
	PaymentStatusPending        PaymentStatus = "PENDING"
	PaymentStatusPaidByDriver   PaymentStatus = "PAID_BY_DRIVER"
	PaymentStatusPayoutComplete PaymentStatus = "PAYOUT_TO_SELLER_COMPLETE"
)

// CommissionRate is the platform's share of every charge.
const CommissionRate = 0.20

// Payment is the monetary record tied 1:1 to a booking. By construction
// CommissionFee + SellerPayoutAmount equals AmountCharged.
type Payment struct {
	ID                 string
	BookingID          string
	ProviderOrderID    string
	ProviderPaymentID  string
	AmountCharged      float64
	CommissionFee      float64
	SellerPayoutAmount float64
	Status             PaymentStatus
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewPayment builds a PENDING payment for a booking, applying the fixed
// commission split. Amounts are kept at full precision for ledger accuracy.
func NewPayment(id, bookingID, providerOrderID string, amount float64, now time.Time) *Payment {
	commission := amount * CommissionRate
	return &Payment{
		ID:                 id,
		BookingID:          bookingID,
		ProviderOrderID:    providerOrderID,
		AmountCharged:      amount,
		CommissionFee:      commission,
		SellerPayoutAmount: amount - commission,
		Status:             PaymentStatusPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}
