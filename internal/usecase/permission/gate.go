package permission

import (
	"context"
	"time"

	"go.uber.org/zap"

	dompermission "github.com/kailas-cloud/netusage/internal/domain/permission"
	"github.com/kailas-cloud/netusage/internal/metrics"
)

// DefaultCheckTimeout bounds a single authorizer query.
const DefaultCheckTimeout = 2 * time.Second

// Gate checks and requests usage-access authorization.
type Gate struct {
	authorizer Authorizer
	launcher   Launcher
	timeout    time.Duration
	logger     *zap.Logger
}

// New creates a Gate. launcher can be nil (requests become no-ops).
func New(authorizer Authorizer, launcher Launcher, logger *zap.Logger) *Gate {
	return &Gate{
		authorizer: authorizer,
		launcher:   launcher,
		timeout:    DefaultCheckTimeout,
		logger:     logger.With(zap.String("component", "permission-gate")),
	}
}

// WithTimeout overrides the authorizer deadline.
func (g *Gate) WithTimeout(d time.Duration) *Gate {
	if d > 0 {
		g.timeout = d
	}
	return g
}

// State asks the authorizer on every call. Errors and timeouts count as denied.
func (g *Gate) State(ctx context.Context) dompermission.State {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	ok, err := g.authorizer.Granted(ctx)
	if err != nil {
		g.logger.Warn("Usage access check failed, reporting denied", zap.Error(err))
		return dompermission.Denied
	}
	return dompermission.FromBool(ok)
}

// HasUsagePermission reports whether usage access is granted right now.
func (g *Gate) HasUsagePermission(ctx context.Context) bool {
	return g.State(ctx).IsGranted()
}

// RequestUsagePermission hands off to the authorization surface and returns
// without waiting. It is best-effort: a failed launch is logged and counted,
// never returned. Callers re-check HasUsagePermission later.
func (g *Gate) RequestUsagePermission(ctx context.Context) {
	if g.launcher == nil {
		g.logger.Warn("No authorization surface configured")
		metrics.PermissionLaunchFailuresTotal.Inc()
		return
	}

	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("Authorization surface launch panicked", zap.Any("panic", r))
			metrics.PermissionLaunchFailuresTotal.Inc()
		}
	}()

	if err := g.launcher.Launch(ctx); err != nil {
		g.logger.Error("Failed to open usage access settings", zap.Error(err))
		metrics.PermissionLaunchFailuresTotal.Inc()
		return
	}
	g.logger.Info("Usage access settings opened")
}
