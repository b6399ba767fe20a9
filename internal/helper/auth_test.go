package helper

import (
	"testing"
	"time"

	"github.com/SundayYogurt/herohq/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth_TokenRoundTrip(t *testing.T) {
	a := SetupAuth("secret", time.Hour)

	tok, err := a.GenerateToken("u-1", "jane@x.com", "s-1")
	require.NoError(t, err)

	for _, in := range []string{tok, "Bearer " + tok, "  bearer " + tok} {
		claims, err := a.VerifyToken(in)
		require.NoError(t, err)
		assert.Equal(t, "u-1", claims.UserID)
		assert.Equal(t, "jane@x.com", claims.Email)
		assert.Equal(t, "s-1", claims.SessionID)
	}
}

func TestAuth_VerifyTokenRejects(t *testing.T) {
	a := SetupAuth("secret", time.Hour)

	_, err := a.VerifyToken("")
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	_, err = a.VerifyToken("Bearer ")
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	other, _ := SetupAuth("other", time.Hour).GenerateToken("u", "e@x.com", "s")
	_, err = a.VerifyToken(other)
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "u", "email": "e@x.com", "sid": "s",
		"iat": time.Now().Add(-2 * time.Hour).Unix(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	str, err := expired.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = a.VerifyToken(str)
	assert.ErrorIs(t, err, common.ErrTokenExpired)

	_, err = a.GenerateToken("", "e@x.com", "s")
	assert.Error(t, err)
}

func TestAuth_Passwords(t *testing.T) {
	a := SetupAuth("secret", 0)
	assert.Equal(t, 24*time.Hour, a.TTL)

	hash, err := a.HashPassword("hunter22")
	require.NoError(t, err)

	assert.NoError(t, a.VerifyPassword("hunter22", hash))
	assert.ErrorIs(t, a.VerifyPassword("wrong", hash), common.ErrInvalidCredentials)
	assert.ErrorIs(t, a.VerifyPassword("anything", ""), common.ErrInvalidCredentials)
}
