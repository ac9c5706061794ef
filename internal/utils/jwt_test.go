package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	userID := uuid.New()

	token, err := GenerateToken("secret", userID, false, time.Hour)
	require.NoError(t, err)

	parsedID, staff, err := ParseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, userID, parsedID)
	assert.False(t, staff)
}

func TestTokenStaffClaim(t *testing.T) {
	token, err := GenerateToken("secret", uuid.New(), true, time.Hour)
	require.NoError(t, err)

	_, staff, err := ParseToken("secret", token)
	require.NoError(t, err)
	assert.True(t, staff)
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret", uuid.New(), false, time.Hour)
	require.NoError(t, err)

	_, _, err = ParseToken("other-secret", token)
	assert.Error(t, err)
}

func TestTokenExpired(t *testing.T) {
	token, err := GenerateToken("secret", uuid.New(), false, -time.Minute)
	require.NoError(t, err)

	_, _, err = ParseToken("secret", token)
	assert.Error(t, err)
}
