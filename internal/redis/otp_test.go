package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOTPStore(t *testing.T) {
	s, client := newTestClient(t)
	store := NewOTPStore(client, 5*time.Minute)
	ctx := context.Background()

	t.Run("SetAndGet", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "+911234567890", "482913"))

		code, err := store.Get(ctx, "+911234567890")
		require.NoError(t, err)
		assert.Equal(t, "482913", code)
	})

	t.Run("GetMissing", func(t *testing.T) {
		code, err := store.Get(ctx, "+910000000000")
		require.NoError(t, err)
		assert.Empty(t, code)
	})

	t.Run("SetReplaces", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "+911234567890", "111111"))

		code, err := store.Get(ctx, "+911234567890")
		require.NoError(t, err)
		assert.Equal(t, "111111", code)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "+911234567890"))

		code, err := store.Get(ctx, "+911234567890")
		require.NoError(t, err)
		assert.Empty(t, code)
	})

	t.Run("Expiry", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "+919999999999", "654321"))

		s.FastForward(6 * time.Minute)

		code, err := store.Get(ctx, "+919999999999")
		require.NoError(t, err)
		assert.Empty(t, code, "code must expire with its TTL")
	})
}
