package accountant

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/netusage/internal/clock"
	"github.com/kailas-cloud/netusage/internal/domain/traffic"
)

// Service assembles usage reports from a CounterSource.
type Service struct {
	source CounterSource
	clock  clock.Clock
	span   time.Duration
}

// New creates a Service using a monotonic clock and a 24h trailing window.
func New(source CounterSource) *Service {
	return &Service{
		source: source,
		clock:  clock.NewMonotonic(),
		span:   traffic.DefaultWindow,
	}
}

// WithClock replaces the time source.
func (s *Service) WithClock(c clock.Clock) *Service {
	s.clock = c
	return s
}

// SimpleReport returns the cumulative counters. Invalid counters are already
// normalized to zero by the source, so this never fails.
func (s *Service) SimpleReport(ctx context.Context) traffic.Report {
	return s.source.ReadCumulative(ctx)
}

// Window returns the trailing window ending now. It is recomputed on every call.
func (s *Service) Window() traffic.Window {
	return traffic.TrailingWindow(s.clock.Now(), s.span)
}

// WindowedTotal returns rx+tx bytes over the trailing 24 hours.
// Errors wrap ErrQueryFailed, ErrIdentifierUnavailable or ErrUnsupportedPlatform.
func (s *Service) WindowedTotal(ctx context.Context) (int64, error) {
	r, err := s.source.ReadWindow(ctx, s.Window())
	if err != nil {
		return 0, fmt.Errorf("windowed total: %w", err)
	}
	return r.Total(), nil
}
