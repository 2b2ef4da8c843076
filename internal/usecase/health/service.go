package health

import (
	"context"
	"errors"
	"time"
)

// DefaultCheckTimeout bounds each component check.
const DefaultCheckTimeout = 2 * time.Second

var errCounterUnsupported = errors.New("counter unsupported")

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates at least one failing check.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db       DBPinger
	counters CounterProber
	timeout  time.Duration
}

// New creates a Service. counters can be nil.
func New(db DBPinger, counters CounterProber) *Service {
	return &Service{db: db, counters: counters, timeout: DefaultCheckTimeout}
}

// WithCheckTimeout overrides the per-check deadline.
func (s *Service) WithCheckTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.run(ctx, s.db.Ping); err != nil {
		checks["database"] = CheckError
	} else {
		checks["database"] = CheckOK
	}

	if s.counters != nil {
		if err := s.run(ctx, func(ctx context.Context) error { return probe(ctx, s.counters) }); err != nil {
			checks["counters"] = CheckError
		} else {
			checks["counters"] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}

// run bounds fn by the check timeout. A check that ignores ctx is abandoned.
func (s *Service) run(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- fn(ctx) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func probe(ctx context.Context, c CounterProber) error {
	v, err := c.TotalRxBytes(ctx)
	if err != nil {
		return err
	}
	if v < 0 {
		return errCounterUnsupported
	}
	return nil
}
