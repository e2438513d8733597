package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	ctx := context.Background()

	t.Run("first claim wins", func(t *testing.T) {
		ok, err := store.SetIfAbsent(ctx, "key-a", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.SetIfAbsent(ctx, "key-a", time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("expired keys can be reclaimed", func(t *testing.T) {
		ok, err := store.SetIfAbsent(ctx, "key-b", -time.Second)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.SetIfAbsent(ctx, "key-b", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("keys are independent", func(t *testing.T) {
		ok, err := store.SetIfAbsent(ctx, "key-c", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}
