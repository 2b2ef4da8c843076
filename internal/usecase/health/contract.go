package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// CounterProber reads one host counter to verify the platform is reachable.
type CounterProber interface {
	TotalRxBytes(ctx context.Context) (int64, error)
}
