package metrics

import "github.com/prometheus/client_golang/prometheus"

// Channel and accounting Prometheus metrics.
var (
	ChannelCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "netusage",
			Name:      "channel_calls_total",
			Help:      "Total number of channel method calls",
		},
		[]string{"method", "outcome"}, // outcome: success / error / not_implemented
	)

	ChannelCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "netusage",
			Name:      "channel_call_duration_seconds",
			Help:      "Channel method call duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"method"},
	)

	CounterFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "netusage",
			Name:      "counter_fallbacks_total",
			Help:      "Cumulative reads normalized to an all-zero report",
		},
	)

	CounterReadErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "netusage",
			Name:      "counter_read_errors_total",
			Help:      "Individual counter reads that failed or timed out",
		},
		[]string{"counter"},
	)

	WindowQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "netusage",
			Name:      "window_queries_total",
			Help:      "Windowed usage queries by result",
		},
		[]string{"result"}, // ok / unsupported / no_identifier / failed
	)

	PermissionLaunchFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "netusage",
			Name:      "permission_launch_failures_total",
			Help:      "Authorization surface launches that failed",
		},
	)

	LedgerSamplesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "netusage",
			Name:      "ledger_samples_total",
			Help:      "Ledger sampling rounds by result",
		},
		[]string{"result"}, // ok / baseline / error
	)
)

var usageMetricsRegistered bool

// RegisterUsageMetrics registers channel and accounting metrics. Must be called once from main.
func RegisterUsageMetrics() {
	if usageMetricsRegistered {
		return
	}
	prometheus.MustRegister(ChannelCallsTotal)
	prometheus.MustRegister(ChannelCallDuration)
	prometheus.MustRegister(CounterFallbacksTotal)
	prometheus.MustRegister(CounterReadErrorsTotal)
	prometheus.MustRegister(WindowQueriesTotal)
	prometheus.MustRegister(PermissionLaunchFailuresTotal)
	prometheus.MustRegister(LedgerSamplesTotal)
	usageMetricsRegistered = true
}
