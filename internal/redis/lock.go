package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireSpotLock attempts to acquire the lock serializing all mutations of
// a spot's window set. Returns true if the lock was acquired, false if
// already held.
func (s *LockStore) AcquireSpotLock(ctx context.Context, spotID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:spot:%s", spotID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseSpotLock releases the lock for the given spot.
func (s *LockStore) ReleaseSpotLock(ctx context.Context, spotID string) error {
	key := fmt.Sprintf("lock:spot:%s", spotID)

	return s.client.Del(ctx, key).Err()
}

// AcquireSettleLock attempts to acquire the single-flight lock for the
// batch-settle job. Returns false while another run holds it.
func (s *LockStore) AcquireSettleLock(ctx context.Context, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, "lock:payout:settle", "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseSettleLock releases the batch-settle lock.
func (s *LockStore) ReleaseSettleLock(ctx context.Context) error {
	return s.client.Del(ctx, "lock:payout:settle").Err()
}
