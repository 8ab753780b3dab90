// Package provider holds the external payment and payout collaborators.
// The rest of the system consumes them as opaque interfaces; concrete
// implementations talk Razorpay's wire format.
package provider

import "context"

// PaymentProvider is the interface for the upstream payment gateway.
type PaymentProvider interface {
	// CreateOrder registers a collect order with the gateway and returns
	// the provider's order reference. Amount is in minor currency units.
	CreateOrder(ctx context.Context, amountMinorUnits int64, currency string, notes map[string]string) (string, error)

	// VerifyWebhookSignature reports whether the webhook body carries a
	// valid signature from the gateway.
	VerifyWebhookSignature(body []byte, signature string) bool
}

// PayoutProvider is the interface for the upstream payout rails.
type PayoutProvider interface {
	// Transfer sends amount to the seller's linked account. The
	// idempotency key dedupes retries after a crash between "transfer
	// succeeded" and "ledger updated".
	Transfer(ctx context.Context, accountRef string, amount float64, idempotencyKey string) (string, error)
}

// WebhookEvent is the gateway's webhook envelope.
type WebhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// EventPaymentCaptured is the only webhook event the booking flow acts on.
const EventPaymentCaptured = "payment.captured"
