package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCodeToken(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		token, err := NewCodeToken()
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.False(t, seen[token], "token generated twice: %s", token)
		seen[token] = true
	}
}

func TestCodeLookupHash(t *testing.T) {
	t.Run("deterministic for same key and token", func(t *testing.T) {
		assert.Equal(t,
			CodeLookupHash("key", "token"),
			CodeLookupHash("key", "token"),
		)
	})

	t.Run("differs per token", func(t *testing.T) {
		assert.NotEqual(t,
			CodeLookupHash("key", "token-a"),
			CodeLookupHash("key", "token-b"),
		)
	})

	t.Run("differs per key", func(t *testing.T) {
		assert.NotEqual(t,
			CodeLookupHash("key-a", "token"),
			CodeLookupHash("key-b", "token"),
		)
	})

	t.Run("hash reveals nothing about token length", func(t *testing.T) {
		short := CodeLookupHash("key", "a")
		long := CodeLookupHash("key", "a-much-longer-token-value")
		assert.Len(t, short, 64)
		assert.Len(t, long, 64)
	})
}
