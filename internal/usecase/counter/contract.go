package counter

import (
	"context"

	"github.com/kailas-cloud/netusage/internal/domain/traffic"
)

// Unsupported is the sentinel a CounterProvider returns when a counter cannot be read.
const Unsupported int64 = -1

// CounterProvider reads cumulative byte counters from the platform.
// Each read is independent and may fail or return a negative sentinel.
type CounterProvider interface {
	MobileRxBytes(ctx context.Context) (int64, error)
	MobileTxBytes(ctx context.Context) (int64, error)
	TotalRxBytes(ctx context.Context) (int64, error)
	TotalTxBytes(ctx context.Context) (int64, error)
}

// WindowProvider answers usage summaries for a subscriber over a time window.
type WindowProvider interface {
	Summary(ctx context.Context, subscriberID string, w traffic.Window) (rx, tx int64, err error)
}

// IdentifierResolver resolves the subscriber/device identifier that scopes windowed queries.
type IdentifierResolver interface {
	SubscriberID(ctx context.Context) (string, error)
}

// Capability reports platform features.
type Capability interface {
	WindowedSummary() bool
}

// CapabilityFunc adapts a function to Capability.
type CapabilityFunc func() bool

// WindowedSummary calls f.
func (f CapabilityFunc) WindowedSummary() bool { return f() }
