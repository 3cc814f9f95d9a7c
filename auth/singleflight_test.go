package auth

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// blockingService counts refreshes and holds each one until released.
type blockingService struct {
	Service
	refreshes atomic.Int64
	release   chan struct{}
	err       error
}

func (s *blockingService) RefreshToken(_ context.Context) error {
	s.refreshes.Add(1)
	<-s.release
	return s.err
}

func TestSingleFlightRefresh(t *testing.T) {
	t.Run("concurrent callers share one refresh", func(t *testing.T) {
		svc := &blockingService{release: make(chan struct{})}
		sf := SingleFlight(svc)

		const callers = 8
		var wg sync.WaitGroup
		errs := make([]error, callers)
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = sf.RefreshToken(context.Background())
			}(i)
		}

		// Let all goroutines join the in-flight call before releasing it.
		assert.Eventually(t, func() bool {
			return svc.refreshes.Load() == 1
		}, time.Second, time.Millisecond)
		close(svc.release)
		wg.Wait()

		assert.Equal(t, int64(1), svc.refreshes.Load())
		for _, err := range errs {
			assert.NoError(t, err)
		}
	})

	t.Run("shared error propagates to all callers", func(t *testing.T) {
		refreshErr := errors.New("provider unavailable")
		svc := &blockingService{release: make(chan struct{}), err: refreshErr}
		sf := SingleFlight(svc)

		var wg sync.WaitGroup
		errs := make([]error, 4)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = sf.RefreshToken(context.Background())
			}(i)
		}
		assert.Eventually(t, func() bool {
			return svc.refreshes.Load() == 1
		}, time.Second, time.Millisecond)
		close(svc.release)
		wg.Wait()

		for _, err := range errs {
			assert.ErrorIs(t, err, refreshErr)
		}
	})

	t.Run("sequential refreshes are not deduplicated", func(t *testing.T) {
		svc := &blockingService{release: make(chan struct{})}
		close(svc.release)
		sf := SingleFlight(svc)

		assert.NoError(t, sf.RefreshToken(context.Background()))
		assert.NoError(t, sf.RefreshToken(context.Background()))
		assert.Equal(t, int64(2), svc.refreshes.Load())
	})
}
