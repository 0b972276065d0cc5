package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour)

	token, exp, err := m.GenerateToken(TokenSDK, SDKPayload(3, 42))
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := m.ParseToken(token, TokenSDK)
	require.NoError(t, err)
	appID, userID, err := ParseSDKPayload(claims.V)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), appID)
	assert.Equal(t, uint64(42), userID)
}

func TestTokenRejected(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour)
	token, _, err := m.GenerateToken(TokenMgr, "1")
	require.NoError(t, err)

	t.Run("wrong type", func(t *testing.T) {
		_, err := m.ParseToken(token, TokenSDK)
		assert.ErrorIs(t, err, ErrTokenType)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenManager("ffffffffffffffffffffffffffffffff", time.Hour)
		_, err := other.ParseToken(token, TokenMgr)
		assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})

	t.Run("expired", func(t *testing.T) {
		late := NewTokenManager(testSecret, time.Hour)
		late.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := late.ParseToken(token, TokenMgr)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})
}

func TestParseSDKPayload(t *testing.T) {
	for _, v := range []string{"", "12", "a@1", "1@b", "1@"} {
		_, _, err := ParseSDKPayload(v)
		assert.ErrorIs(t, err, ErrTokenPayload, v)
	}
}
