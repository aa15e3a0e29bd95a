// Package metrics holds the Prometheus collectors exposed by `nevermiss serve`
// at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ParseLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nevermiss_parse_duration_seconds",
			Help:    "Completion endpoint latency per parse request",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~50s
		},
		[]string{"provider", "outcome"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nevermiss_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "route", "status"},
	)

	RemindersCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nevermiss_reminders_created_total",
			Help: "Reminders appended to the store",
		},
		[]string{"source"}, // http, mcp, repl
	)

	StatusUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nevermiss_status_updates_total",
			Help: "Status changes applied to stored reminders",
		},
		[]string{"status"},
	)
)

// Parse outcomes.
const (
	OutcomeOK            = "ok"
	OutcomeEndpointError = "endpoint_error"
	OutcomeInvalid       = "invalid_response"
)

func RecordParse(provider, outcome string, d time.Duration) {
	ParseLatency.WithLabelValues(provider, outcome).Observe(d.Seconds())
}

func RecordHTTPRequest(method, route, status string, d time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
}

func IncrementCreated(source string) {
	RemindersCreated.WithLabelValues(source).Inc()
}

func IncrementStatusUpdate(status string) {
	StatusUpdates.WithLabelValues(status).Inc()
}
