package httpclient

import (
	"context"
	"time"
)

// Backoff returns the delay to apply after the given number of completed
// attempts: zero after the first, then initial * 2^(attempt-2). With a 1s
// initial delay the waits between attempts are 0, 1s and 2s.
func Backoff(attempt int, initial time.Duration) time.Duration {
	if attempt <= 1 {
		return 0
	}
	return initial << uint(attempt-2)
}

// sleepContext waits for d or until ctx is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
