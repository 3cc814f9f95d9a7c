package auth

import (
	"context"

	"golang.org/x/sync/singleflight"
)

const refreshKey = "refresh"

// SingleFlightService wraps a Service so that overlapping RefreshToken calls
// collapse into one in-flight refresh; concurrent callers share its result.
// The HTTP client itself triggers refreshes independently per request, so
// wrapping the service with SingleFlight is the way to opt into
// deduplicated refresh semantics.
type SingleFlightService struct {
	Service
	group singleflight.Group
}

// SingleFlight wraps svc with refresh deduplication.
func SingleFlight(svc Service) *SingleFlightService {
	return &SingleFlightService{Service: svc}
}

// RefreshToken joins any in-flight refresh instead of starting another.
func (s *SingleFlightService) RefreshToken(ctx context.Context) error {
	_, err, _ := s.group.Do(refreshKey, func() (any, error) {
		return nil, s.Service.RefreshToken(ctx)
	})
	return err
}
