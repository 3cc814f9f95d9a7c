package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signedToken builds an HS256 token with the given claims for test scenarios.
func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestDecodeExpiry(t *testing.T) {
	t.Run("returns exp claim as time", func(t *testing.T) {
		exp := time.Now().Add(time.Hour).Truncate(time.Second)
		token := signedToken(t, jwt.MapClaims{"exp": exp.Unix(), "sub": "user-1"})

		got, err := DecodeExpiry(token)
		assert.NoError(t, err)
		assert.True(t, got.Equal(exp), "expected %s, got %s", exp, got)
	})

	t.Run("missing exp claim", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{"sub": "user-1"})

		_, err := DecodeExpiry(token)
		assert.ErrorIs(t, err, ErrNoExpiry)
	})

	t.Run("malformed token", func(t *testing.T) {
		_, err := DecodeExpiry("not-a-jwt")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "malformed token")
	})
}

func TestJWTValidatorCheckToken(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	validator := &JWTValidator{Now: func() time.Time { return now }}

	t.Run("valid unexpired token", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{"exp": now.Add(time.Hour).Unix(), "sub": "user-1"})

		v := validator.CheckToken(token)
		assert.True(t, v.Valid)
		assert.NoError(t, v.Cause)
		assert.Equal(t, "user-1", v.Claims["sub"])
		assert.True(t, v.ExpiresAt.After(now))
	})

	t.Run("expired token", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{"exp": now.Add(-time.Minute).Unix()})

		v := validator.CheckToken(token)
		assert.False(t, v.Valid)
		assert.ErrorContains(t, v.Cause, "token expired")
		assert.False(t, v.ExpiresAt.IsZero())
	})

	t.Run("token without exp claim", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{"sub": "user-1"})

		v := validator.CheckToken(token)
		assert.False(t, v.Valid)
		assert.ErrorIs(t, v.Cause, ErrNoExpiry)
	})

	t.Run("malformed token", func(t *testing.T) {
		v := validator.CheckToken("garbage")
		assert.False(t, v.Valid)
		assert.ErrorContains(t, v.Cause, "malformed token")
	})
}

func TestValidityExpiresWithin(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt time.Time
		window    time.Duration
		expected  bool
	}{
		{"well inside validity", now.Add(time.Hour), 30 * time.Second, false},
		{"inside refresh window", now.Add(10 * time.Second), 30 * time.Second, true},
		{"already expired", now.Add(-time.Minute), 30 * time.Second, true},
		{"zero expiry treated as expired", time.Time{}, 30 * time.Second, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Validity{ExpiresAt: tt.expiresAt}
			assert.Equal(t, tt.expected, v.ExpiresWithin(tt.window, now))
		})
	}
}
