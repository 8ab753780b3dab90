package provider

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// MockPaymentProvider is an in-memory PaymentProvider for development and tests.
type MockPaymentProvider struct {
	counter int64

	// Error injection
	CreateOrderError error
	// SignatureValid controls VerifyWebhookSignature. Defaults to accepting.
	RejectSignatures bool
}

// NewMockPaymentProvider creates a new mock payment provider.
func NewMockPaymentProvider() *MockPaymentProvider {
	return &MockPaymentProvider{}
}

// CreateOrder returns a synthetic order ID.
func (p *MockPaymentProvider) CreateOrder(ctx context.Context, amountMinorUnits int64, currency string, notes map[string]string) (string, error) {
	if p.CreateOrderError != nil {
		return "", p.CreateOrderError
	}
	n := atomic.AddInt64(&p.counter, 1)
	return fmt.Sprintf("order_mock_%06d", n), nil
}

// VerifyWebhookSignature accepts every signature unless configured otherwise.
func (p *MockPaymentProvider) VerifyWebhookSignature(body []byte, signature string) bool {
	return !p.RejectSignatures
}

// MockPayoutProvider is an in-memory PayoutProvider for development and tests.
// It records transfers and dedupes by idempotency key.
type MockPayoutProvider struct {
	mu        sync.Mutex
	transfers map[string]string // idempotency key -> transfer ID
	counter   int64

	// TransferCallCount counts actual (non-deduped) transfers.
	TransferCallCount int32

	// Error injection
	TransferError error
}

// NewMockPayoutProvider creates a new mock payout provider.
func NewMockPayoutProvider() *MockPayoutProvider {
	return &MockPayoutProvider{transfers: make(map[string]string)}
}

// Transfer records a transfer, returning the same transfer ID for a repeated
// idempotency key.
func (p *MockPayoutProvider) Transfer(ctx context.Context, accountRef string, amount float64, idempotencyKey string) (string, error) {
	if p.TransferError != nil {
		return "", p.TransferError
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if id, ok := p.transfers[idempotencyKey]; ok {
		return id, nil
	}

	p.counter++
	atomic.AddInt32(&p.TransferCallCount, 1)
	id := fmt.Sprintf("pout_mock_%06d", p.counter)
	p.transfers[idempotencyKey] = id
	return id, nil
}

// Ensure mocks satisfy the interfaces.
var (
	_ PaymentProvider = (*MockPaymentProvider)(nil)
	_ PayoutProvider  = (*MockPayoutProvider)(nil)
)
