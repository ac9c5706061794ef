package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryOTPStore(t *testing.T) {
	ctx := context.Background()

	t.Run("consume matches stored code", func(t *testing.T) {
		store := NewMemoryOTPStore(time.Minute)
		require.NoError(t, store.Set(ctx, "+1000000001", "1234"))

		ok, err := store.Consume(ctx, "+1000000001", "1234")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("consume is one-shot", func(t *testing.T) {
		store := NewMemoryOTPStore(time.Minute)
		require.NoError(t, store.Set(ctx, "+1000000002", "1234"))

		ok, err := store.Consume(ctx, "+1000000002", "1234")
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = store.Consume(ctx, "+1000000002", "1234")
		require.NoError(t, err)
		assert.False(t, ok, "replayed code must not verify")
	})

	t.Run("wrong guess keeps the code", func(t *testing.T) {
		store := NewMemoryOTPStore(time.Minute)
		require.NoError(t, store.Set(ctx, "+1000000003", "1234"))

		ok, err := store.Consume(ctx, "+1000000003", "9999")
		require.NoError(t, err)
		require.False(t, ok)

		ok, err = store.Consume(ctx, "+1000000003", "1234")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("expired code does not verify", func(t *testing.T) {
		store := NewMemoryOTPStore(-time.Second)
		require.NoError(t, store.Set(ctx, "+1000000004", "1234"))

		ok, err := store.Consume(ctx, "+1000000004", "1234")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("unknown phone does not verify", func(t *testing.T) {
		store := NewMemoryOTPStore(time.Minute)

		ok, err := store.Consume(ctx, "+1000000005", "1234")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("second set replaces the first", func(t *testing.T) {
		store := NewMemoryOTPStore(time.Minute)
		require.NoError(t, store.Set(ctx, "+1000000006", "1111"))
		require.NoError(t, store.Set(ctx, "+1000000006", "2222"))

		ok, err := store.Consume(ctx, "+1000000006", "1111")
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = store.Consume(ctx, "+1000000006", "2222")
		require.NoError(t, err)
		assert.True(t, ok)
	})
}
