package accountant

import (
	"context"

	"github.com/kailas-cloud/netusage/internal/domain/traffic"
)

// CounterSource reads cumulative and windowed usage.
type CounterSource interface {
	ReadCumulative(ctx context.Context) traffic.Report
	ReadWindow(ctx context.Context, w traffic.Window) (traffic.WindowReport, error)
}
