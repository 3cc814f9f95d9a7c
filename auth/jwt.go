package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoExpiry is returned when a token payload carries no exp claim.
var ErrNoExpiry = errors.New("token has no exp claim")

// DecodeExpiry extracts the expiry instant from a JWT payload without
// verifying the signature. Signature verification is the provider's job;
// the client only needs the exp claim for its pre-flight validity window.
func DecodeExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("malformed token: %w", err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid exp claim: %w", err)
	}
	if exp == nil {
		return time.Time{}, ErrNoExpiry
	}
	return exp.Time, nil
}

// JWTValidator implements the token-inspection half of Service for JWT
// bearer tokens. Now is injectable for deterministic tests and defaults
// to time.Now.
type JWTValidator struct {
	Now func() time.Time
}

// CheckToken decodes the token payload and reports whether it is well
// formed and unexpired.
func (v *JWTValidator) CheckToken(token string) Validity {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return Validity{Cause: fmt.Errorf("malformed token: %w", err)}
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return Validity{Claims: claims, Cause: fmt.Errorf("invalid exp claim: %w", err)}
	}
	if exp == nil {
		return Validity{Claims: claims, Cause: ErrNoExpiry}
	}

	now := time.Now()
	if v.Now != nil {
		now = v.Now()
	}
	if !exp.Time.After(now) {
		return Validity{ExpiresAt: exp.Time, Claims: claims, Cause: fmt.Errorf("token expired at %s", exp.Time.Format(time.RFC3339))}
	}

	return Validity{Valid: true, ExpiresAt: exp.Time, Claims: claims}
}
