package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/netusage/internal/clock"
	"github.com/kailas-cloud/netusage/internal/metrics"
)

var errCounterUnavailable = errors.New("total counter unavailable")

// TotalsReader reads cumulative host totals.
type TotalsReader interface {
	TotalRxBytes(ctx context.Context) (int64, error)
	TotalTxBytes(ctx context.Context) (int64, error)
}

// SubscriberResolver resolves the subscriber the samples are credited to.
type SubscriberResolver interface {
	SubscriberID(ctx context.Context) (string, error)
}

// Recorder converts cumulative host counters into ledger deltas.
type Recorder struct {
	ledger     *Ledger
	counters   TotalsReader
	identifier SubscriberResolver
	clock      clock.Clock
	logger     *zap.Logger

	mu          sync.Mutex
	lastRx      int64
	lastTx      int64
	initialized bool
}

// NewRecorder creates a Recorder.
func NewRecorder(
	l *Ledger,
	counters TotalsReader,
	identifier SubscriberResolver,
	clk clock.Clock,
	logger *zap.Logger,
) *Recorder {
	return &Recorder{
		ledger:     l,
		counters:   counters,
		identifier: identifier,
		clock:      clk,
		logger:     logger.With(zap.String("component", "ledger-recorder")),
	}
}

// Sample reads the host totals and credits the delta since the previous sample.
// The first sample only establishes the baseline. A counter lower than its
// previous value is treated as a reset and its current value is the delta.
// A direction whose write fails keeps its baseline and is retried next sample.
func (r *Recorder) Sample(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rx, err := readTotal(ctx, r.counters.TotalRxBytes)
	if err != nil {
		metrics.LedgerSamplesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("read rx: %w", err)
	}
	tx, err := readTotal(ctx, r.counters.TotalTxBytes)
	if err != nil {
		metrics.LedgerSamplesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("read tx: %w", err)
	}

	if !r.initialized {
		r.lastRx, r.lastTx, r.initialized = rx, tx, true
		metrics.LedgerSamplesTotal.WithLabelValues("baseline").Inc()
		return nil
	}

	subscriber, err := r.identifier.SubscriberID(ctx)
	if err != nil {
		metrics.LedgerSamplesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("resolve subscriber: %w", err)
	}

	// Each direction's baseline moves only once its bytes are stored, so a
	// partial write never credits the committed direction twice.
	now := r.clock.Now()
	rxCommitted, rxErr := r.ledger.Add(ctx, subscriber, Rx, now, delta(r.lastRx, rx))
	if rxCommitted {
		r.lastRx = rx
	}
	txCommitted, txErr := r.ledger.Add(ctx, subscriber, Tx, now, delta(r.lastTx, tx))
	if txCommitted {
		r.lastTx = tx
	}

	if err := errors.Join(rxErr, txErr); err != nil {
		metrics.LedgerSamplesTotal.WithLabelValues("error").Inc()
		return err
	}
	metrics.LedgerSamplesTotal.WithLabelValues("ok").Inc()
	return nil
}

// Run samples immediately and then on every tick until ctx is done.
func (r *Recorder) Run(ctx context.Context, interval time.Duration) {
	r.logger.Info("ledger recorder started", zap.Duration("interval", interval))
	r.sampleAndLog(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("ledger recorder stopped")
			return
		case <-ticker.C:
			r.sampleAndLog(ctx)
		}
	}
}

func (r *Recorder) sampleAndLog(ctx context.Context) {
	if err := r.Sample(ctx); err != nil && ctx.Err() == nil {
		r.logger.Warn("ledger sample failed", zap.Error(err))
	}
}

func readTotal(ctx context.Context, read func(context.Context) (int64, error)) (int64, error) {
	v, err := read(ctx)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, errCounterUnavailable
	}
	return v, nil
}

func delta(prev, cur int64) int64 {
	if cur < prev {
		return cur
	}
	return cur - prev
}
