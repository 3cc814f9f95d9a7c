package logger

import (
	"context"
	"sync/atomic"
)

// contextKey is the type for context keys to avoid collisions
type contextKey string

const (
	// httpCounterKey is the context key for tracking HTTP attempts per logical call
	httpCounterKey contextKey = "http_attempt_counter"
	// httpElapsedKey is the context key for tracking total network time per logical call
	httpElapsedKey contextKey = "http_elapsed_nanos"
	// refreshCounterKey is the context key for tracking token refreshes per logical call
	refreshCounterKey contextKey = "token_refresh_counter"
)

// WithHTTPTracking creates a new context carrying HTTP attempt, elapsed-time
// and token-refresh counters. The client increments them across retries so
// callers can log per-request totals.
func WithHTTPTracking(ctx context.Context) context.Context {
	attempts := int64(0)
	elapsed := int64(0)
	refreshes := int64(0)
	ctx = context.WithValue(ctx, httpCounterKey, &attempts)
	ctx = context.WithValue(ctx, httpElapsedKey, &elapsed)
	return context.WithValue(ctx, refreshCounterKey, &refreshes)
}

// IncrementHTTPCounter increments the HTTP attempt counter in the context
func IncrementHTTPCounter(ctx context.Context) {
	if counter, ok := ctx.Value(httpCounterKey).(*int64); ok && counter != nil {
		atomic.AddInt64(counter, 1)
	}
}

// GetHTTPCounter returns the current HTTP attempt count from the context
func GetHTTPCounter(ctx context.Context) int64 {
	if counter, ok := ctx.Value(httpCounterKey).(*int64); ok && counter != nil {
		return atomic.LoadInt64(counter)
	}
	return 0
}

// AddHTTPElapsed adds elapsed nanoseconds to the network time in the context
func AddHTTPElapsed(ctx context.Context, nanos int64) {
	if elapsed, ok := ctx.Value(httpElapsedKey).(*int64); ok && elapsed != nil {
		atomic.AddInt64(elapsed, nanos)
	}
}

// GetHTTPElapsed returns the total network time in nanoseconds from the context
func GetHTTPElapsed(ctx context.Context) int64 {
	if elapsed, ok := ctx.Value(httpElapsedKey).(*int64); ok && elapsed != nil {
		return atomic.LoadInt64(elapsed)
	}
	return 0
}

// IncrementRefreshCounter increments the token refresh counter in the context
func IncrementRefreshCounter(ctx context.Context) {
	if counter, ok := ctx.Value(refreshCounterKey).(*int64); ok && counter != nil {
		atomic.AddInt64(counter, 1)
	}
}

// GetRefreshCounter returns the current token refresh count from the context
func GetRefreshCounter(ctx context.Context) int64 {
	if counter, ok := ctx.Value(refreshCounterKey).(*int64); ok && counter != nil {
		return atomic.LoadInt64(counter)
	}
	return 0
}
