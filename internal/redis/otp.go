package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const otpPrefix = "otp:"

// OTPStore holds one-time login codes keyed by phone number, with expiry.
type OTPStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewOTPStore creates a new OTPStore. Codes expire after ttl.
func NewOTPStore(client *redis.Client, ttl time.Duration) *OTPStore {
	return &OTPStore{client: client, ttl: ttl}
}

// Set stores the code for a phone number, replacing any previous one.
func (s *OTPStore) Set(ctx context.Context, phone, code string) error {
	return s.client.Set(ctx, otpPrefix+phone, code, s.ttl).Err()
}

// Get retrieves the code for a phone number. Returns "" when no code is
// stored or it has expired.
func (s *OTPStore) Get(ctx context.Context, phone string) (string, error) {
	code, err := s.client.Get(ctx, otpPrefix+phone).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", fmt.Errorf("get otp: %w", err)
	}
	return code, nil
}

// Delete removes the code for a phone number.
func (s *OTPStore) Delete(ctx context.Context, phone string) error {
	return s.client.Del(ctx, otpPrefix+phone).Err()
}
