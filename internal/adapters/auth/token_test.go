package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, claims jwtClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte("server-secret"))
	require.NoError(t, err)
	return s
}

func TestJWTInspector_Inspect(t *testing.T) {
	now := time.Now()
	token := signToken(t, jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Email: "u@example.com",
	})

	sub, email, err := NewJWTInspector().Inspect(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", sub)
	assert.Equal(t, "u@example.com", email)
}

func TestJWTInspector_ExpiredTokenStillReadable(t *testing.T) {
	past := time.Now().Add(-48 * time.Hour)
	token := signToken(t, jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-9",
			ExpiresAt: jwt.NewNumericDate(past),
		},
	})

	sub, email, err := NewJWTInspector().Inspect(token)
	require.NoError(t, err)
	assert.Equal(t, "user-9", sub)
	assert.Empty(t, email)
}

func TestJWTInspector_Opaque(t *testing.T) {
	_, _, err := NewJWTInspector().Inspect("not-a-jwt")
	require.Error(t, err)
}
