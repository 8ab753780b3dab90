package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { client.Close() })

	return s, client
}

func TestLockStore_SpotLock(t *testing.T) {
	s, client := newTestClient(t)
	store := NewLockStore(client)
	ctx := context.Background()

	t.Run("AcquireAndContend", func(t *testing.T) {
		ok, err := store.AcquireSpotLock(ctx, "spot-1", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.AcquireSpotLock(ctx, "spot-1", time.Minute)
		require.NoError(t, err)
		assert.False(t, ok, "second acquire should fail while held")

		ok, err = store.AcquireSpotLock(ctx, "spot-2", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok, "different spot must not contend")
	})

	t.Run("Release", func(t *testing.T) {
		require.NoError(t, store.ReleaseSpotLock(ctx, "spot-1"))

		ok, err := store.AcquireSpotLock(ctx, "spot-1", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("TTLExpiry", func(t *testing.T) {
		ok, err := store.AcquireSpotLock(ctx, "spot-ttl", 10*time.Second)
		require.NoError(t, err)
		require.True(t, ok)

		s.FastForward(11 * time.Second)

		ok, err = store.AcquireSpotLock(ctx, "spot-ttl", 10*time.Second)
		require.NoError(t, err)
		assert.True(t, ok, "lock should be acquirable after TTL expiry")
	})
}

func TestLockStore_SettleLock(t *testing.T) {
	_, client := newTestClient(t)
	store := NewLockStore(client)
	ctx := context.Background()

	ok, err := store.AcquireSettleLock(ctx, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.AcquireSettleLock(ctx, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "settle job must be single-flight")

	require.NoError(t, store.ReleaseSettleLock(ctx))

	ok, err = store.AcquireSettleLock(ctx, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}
