package query

import (
	"context"

	"github.com/kailas-cloud/netusage/internal/domain/traffic"
)

// Accountant produces usage figures.
type Accountant interface {
	SimpleReport(ctx context.Context) traffic.Report
	WindowedTotal(ctx context.Context) (int64, error)
}

// PermissionGate checks and requests usage-access authorization.
type PermissionGate interface {
	HasUsagePermission(ctx context.Context) bool
	RequestUsagePermission(ctx context.Context)
}
