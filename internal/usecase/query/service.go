package query

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/netusage/internal/domain"
	"github.com/kailas-cloud/netusage/internal/domain/channel"
	logpkg "github.com/kailas-cloud/netusage/internal/logger"
	"github.com/kailas-cloud/netusage/internal/metrics"
)

// Channel method names.
const (
	MethodGetNetworkStats             = "getNetworkStats"
	MethodCheckUsageStatsPermission   = "checkUsageStatsPermission"
	MethodRequestUsageStatsPermission = "requestUsageStatsPermission"
)

// StatsMode selects what getNetworkStats answers with.
type StatsMode string

const (
	// StatsModeReport answers with the cumulative four-counter report and never fails.
	StatsModeReport StatsMode = "report"
	// StatsModeWindowed answers with the trailing 24h rx+tx total and may fail.
	StatsModeWindowed StatsMode = "windowed"
)

// ParseStatsMode validates a configured mode. Empty means report.
func ParseStatsMode(s string) (StatsMode, error) {
	switch StatsMode(s) {
	case "", StatsModeReport:
		return StatsModeReport, nil
	case StatsModeWindowed:
		return StatsModeWindowed, nil
	default:
		return "", fmt.Errorf("unknown stats mode %q", s)
	}
}

const (
	msgStatsUnavailable = "Unable to fetch network stats."
	msgUnsupportedAPI   = "Network stats are not supported on this platform."
	msgInternal         = "Internal error while handling the call."
)

type handlerFunc func(ctx context.Context, req channel.Request) channel.Response

// Service answers channel requests. It holds no per-request state.
type Service struct {
	accountant Accountant
	permission PermissionGate
	mode       StatsMode
	handlers   map[string]handlerFunc
	logger     *zap.Logger
}

// New creates a Service.
func New(accountant Accountant, permission PermissionGate, mode StatsMode, logger *zap.Logger) *Service {
	s := &Service{
		accountant: accountant,
		permission: permission,
		mode:       mode,
		logger:     logger.With(zap.String("component", "query-service")),
	}
	s.handlers = map[string]handlerFunc{
		MethodGetNetworkStats:             s.getNetworkStats,
		MethodCheckUsageStatsPermission:   s.checkUsageStatsPermission,
		MethodRequestUsageStatsPermission: s.requestUsageStatsPermission,
	}
	return s
}

// Mode returns the configured getNetworkStats behaviour.
func (s *Service) Mode() StatsMode { return s.mode }

// Handle routes a request and always returns exactly one response.
func (s *Service) Handle(ctx context.Context, req channel.Request) (resp channel.Response) {
	start := time.Now()
	callLogger := logpkg.FromContextOr(ctx, s.logger).With(
		zap.String("call_id", uuid.NewString()),
		zap.String("method", req.Method()),
	)
	ctx = logpkg.ContextWithLogger(ctx, callLogger)

	handler, ok := s.handlers[req.Method()]
	if !ok {
		callLogger.Debug("Unknown channel method")
		metrics.ChannelCallsTotal.WithLabelValues("unknown", string(channel.KindNotImplemented)).Inc()
		return channel.NotImplemented()
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Channel handler panicked",
				zap.String("method", req.Method()),
				zap.Any("panic", r),
				zap.Stack("stacktrace"),
			)
			resp = channel.Failure(domain.CodeUnavailable, msgInternal)
		}
		metrics.ChannelCallsTotal.WithLabelValues(req.Method(), string(resp.Kind())).Inc()
		metrics.ChannelCallDuration.WithLabelValues(req.Method()).Observe(time.Since(start).Seconds())
	}()

	return handler(ctx, req)
}

func (s *Service) getNetworkStats(ctx context.Context, _ channel.Request) channel.Response {
	if s.mode != StatsModeWindowed {
		return channel.Success(s.accountant.SimpleReport(ctx).Map())
	}

	total, err := s.accountant.WindowedTotal(ctx)
	if err != nil {
		code := domain.ErrorCode(err)
		msg := msgStatsUnavailable
		if code == domain.CodeUnsupportedAPI {
			msg = msgUnsupportedAPI
		}
		logpkg.FromContext(ctx).Warn("Network stats query failed",
			zap.String("code", code),
			zap.Error(err),
		)
		return channel.Failure(code, msg)
	}
	return channel.Success(total)
}

func (s *Service) checkUsageStatsPermission(ctx context.Context, _ channel.Request) channel.Response {
	return channel.Success(s.permission.HasUsagePermission(ctx))
}

func (s *Service) requestUsageStatsPermission(ctx context.Context, _ channel.Request) channel.Response {
	s.permission.RequestUsagePermission(ctx)
	return channel.Success(nil)
}
