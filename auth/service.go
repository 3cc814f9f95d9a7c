package auth

import (
	"context"
	"time"

	"github.com/skillfolio/apiclient/logger"
)

// Validity is the result of inspecting a bearer token.
type Validity struct {
	// Valid is true when the token is well formed and not expired.
	Valid bool
	// ExpiresAt is the token's expiry instant, when decodable.
	ExpiresAt time.Time
	// Claims holds the decoded token payload, when decodable.
	Claims map[string]any
	// Cause describes why the token was rejected when Valid is false.
	Cause error
}

// ExpiresWithin reports whether the token expires within d of now.
// A zero ExpiresAt is treated as already expired.
func (v Validity) ExpiresWithin(d time.Duration, now time.Time) bool {
	return v.ExpiresAt.Before(now.Add(d))
}

// Service is the authentication provider contract. RefreshToken is expected
// to be idempotent and to publish the refreshed token to the shared
// TokenStore so that subsequent reads observe it.
type Service interface {
	// CheckToken inspects a bearer token without a network call.
	CheckToken(token string) Validity
	// RefreshToken obtains a fresh token from the provider.
	RefreshToken(ctx context.Context) error
	// ProviderSessionValid reports whether the provider-side session is still alive.
	ProviderSessionValid(ctx context.Context) (bool, error)
	// Logout terminates the provider session and clears local credentials.
	Logout(ctx context.Context) error
}

// Notifier surfaces user-visible messages. Calls are fire-and-forget; the
// client never blocks on or inspects the outcome of a notification.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a plain function to the Notifier interface.
type NotifierFunc func(message string)

// Notify implements Notifier.
func (f NotifierFunc) Notify(message string) { f(message) }

// LogNotifier writes notifications through a structured logger. It is the
// default sink when no application-level notifier is wired.
type LogNotifier struct {
	log logger.Logger
}

// NewLogNotifier creates a Notifier backed by log.
func NewLogNotifier(log logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Notify logs the message at warn level.
func (n *LogNotifier) Notify(message string) {
	n.log.Warn().Str("notification", message).Msg("User notification")
}
