package counter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/netusage/internal/domain"
	"github.com/kailas-cloud/netusage/internal/domain/traffic"
	"github.com/kailas-cloud/netusage/internal/metrics"
)

// DefaultReadTimeout bounds a single provider call.
const DefaultReadTimeout = 300 * time.Millisecond

// Source reads cumulative and windowed usage from platform providers.
// No provider fault crosses its boundary: cumulative reads degrade to an
// all-zero report, windowed reads return a classified domain error.
type Source struct {
	counters    CounterProvider
	window      WindowProvider
	identifier  IdentifierResolver
	capability  Capability
	readTimeout time.Duration
	logger      *zap.Logger
}

// New creates a Source. window, identifier and capability may be nil, in
// which case windowed queries are reported as unsupported.
func New(
	counters CounterProvider,
	window WindowProvider,
	identifier IdentifierResolver,
	capability Capability,
	logger *zap.Logger,
) *Source {
	return &Source{
		counters:    counters,
		window:      window,
		identifier:  identifier,
		capability:  capability,
		readTimeout: DefaultReadTimeout,
		logger:      logger.With(zap.String("component", "counter-source")),
	}
}

// WithReadTimeout overrides the per-call deadline.
func (s *Source) WithReadTimeout(d time.Duration) *Source {
	if d > 0 {
		s.readTimeout = d
	}
	return s
}

// ReadCumulative reads the four cumulative counters under one shared deadline.
// If any of them is negative (failed, timed out or sentinel) the whole report is zero.
func (s *Source) ReadCumulative(ctx context.Context) traffic.Report {
	ctx, cancel := context.WithTimeout(ctx, s.readTimeout)
	defer cancel()

	r := traffic.NewReport(
		s.readCounter(ctx, "mobile_rx", s.counters.MobileRxBytes),
		s.readCounter(ctx, "mobile_tx", s.counters.MobileTxBytes),
		s.readCounter(ctx, "total_rx", s.counters.TotalRxBytes),
		s.readCounter(ctx, "total_tx", s.counters.TotalTxBytes),
	)
	if r.Valid() {
		return r
	}

	s.logger.Warn("Invalid traffic counters, returning zero report",
		zap.Int64("mobile_rx", r.MobileRxBytes()),
		zap.Int64("mobile_tx", r.MobileTxBytes()),
		zap.Int64("total_rx", r.TotalRxBytes()),
		zap.Int64("total_tx", r.TotalTxBytes()),
	)
	metrics.CounterFallbacksTotal.Inc()
	return traffic.ZeroReport()
}

func (s *Source) readCounter(
	ctx context.Context, name string, read func(context.Context) (int64, error),
) int64 {
	v, err := bounded(ctx, s.readTimeout, read)
	if err != nil {
		s.logger.Error("Counter read failed", zap.String("counter", name), zap.Error(err))
		metrics.CounterReadErrorsTotal.WithLabelValues(name).Inc()
		return Unsupported
	}
	return v
}

// ReadWindow returns rx/tx bytes for the window. The capability gate runs
// before anything else, so an unsupported platform never reaches the provider.
func (s *Source) ReadWindow(ctx context.Context, w traffic.Window) (traffic.WindowReport, error) {
	if s.window == nil || s.capability == nil || !s.capability.WindowedSummary() {
		metrics.WindowQueriesTotal.WithLabelValues("unsupported").Inc()
		return traffic.WindowReport{}, fmt.Errorf("windowed summary: %w", domain.ErrUnsupportedPlatform)
	}

	subscriberID, err := s.resolveIdentifier(ctx)
	if err != nil {
		metrics.WindowQueriesTotal.WithLabelValues("no_identifier").Inc()
		return traffic.WindowReport{}, err
	}

	if !w.Valid() {
		metrics.WindowQueriesTotal.WithLabelValues("failed").Inc()
		return traffic.WindowReport{}, fmt.Errorf("invalid window [%d, %d): %w",
			w.StartMillis(), w.EndMillis(), domain.ErrQueryFailed)
	}

	type summary struct{ rx, tx int64 }
	res, err := bounded(ctx, s.readTimeout, func(ctx context.Context) (summary, error) {
		rx, tx, err := s.window.Summary(ctx, subscriberID, w)
		return summary{rx: rx, tx: tx}, err
	})
	if err == nil && (res.rx < 0 || res.tx < 0) {
		err = fmt.Errorf("negative summary rx=%d tx=%d", res.rx, res.tx)
	}
	if err != nil {
		s.logger.Error("Windowed usage query failed",
			zap.String("subscriber_id", subscriberID),
			zap.Int64("start", w.StartMillis()),
			zap.Int64("end", w.EndMillis()),
			zap.Error(err),
		)
		metrics.WindowQueriesTotal.WithLabelValues("failed").Inc()
		return traffic.WindowReport{}, fmt.Errorf("%w: %v", domain.ErrQueryFailed, err)
	}

	metrics.WindowQueriesTotal.WithLabelValues("ok").Inc()
	return traffic.NewWindowReport(w, res.rx, res.tx), nil
}

func (s *Source) resolveIdentifier(ctx context.Context) (string, error) {
	if s.identifier == nil {
		return "", domain.ErrIdentifierUnavailable
	}
	id, err := bounded(ctx, s.readTimeout, s.identifier.SubscriberID)
	if err != nil {
		s.logger.Warn("Subscriber identifier unavailable", zap.Error(err))
		return "", fmt.Errorf("%w: %v", domain.ErrIdentifierUnavailable, err)
	}
	if id == "" {
		return "", domain.ErrIdentifierUnavailable
	}
	return id, nil
}

var errProviderPanic = errors.New("provider panic")

// bounded runs fn with a deadline. A provider that ignores ctx is abandoned
// when the deadline passes; its result is discarded.
func bounded[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		val T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- result{err: fmt.Errorf("%w: %v", errProviderPanic, r)}
			}
		}()
		v, err := fn(ctx)
		ch <- result{val: v, err: err}
	}()

	select {
	case r := <-ch:
		return r.val, r.err
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("provider call: %w", ctx.Err())
	}
}
