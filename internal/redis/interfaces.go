package redis

import (
	"context"
	"time"
)

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireSpotLock(ctx context.Context, spotID string, ttl time.Duration) (bool, error)
	ReleaseSpotLock(ctx context.Context, spotID string) error
	AcquireSettleLock(ctx context.Context, ttl time.Duration) (bool, error)
	ReleaseSettleLock(ctx context.Context) error
}

// OTPStoreInterface defines the interface for the keyed one-time-code store.
type OTPStoreInterface interface {
	Set(ctx context.Context, phone, code string) error
	Get(ctx context.Context, phone string) (string, error)
	Delete(ctx context.Context, phone string) error
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface = (*LockStore)(nil)
	_ OTPStoreInterface  = (*OTPStore)(nil)
)
