package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Console metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lente",
			Subsystem: "console",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lente",
			Subsystem: "console",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint", "status"},
	)

	// Upstream platform calls
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lente",
			Subsystem: "console",
			Name:      "upstream_requests_total",
			Help:      "Total agent platform requests",
		},
		[]string{"operation", "status"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lente",
			Subsystem: "console",
			Name:      "upstream_duration_seconds",
			Help:      "Agent platform request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"operation"},
	)

	// Auth requests
	AuthRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lente",
			Subsystem: "console",
			Name:      "auth_requests_total",
			Help:      "Total authentication requests",
		},
		[]string{"status"},
	)

	// Conversations
	ConversationsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lente",
			Subsystem: "console",
			Name:      "conversations_created_total",
			Help:      "Total conversations created",
		},
	)

	MessagesAppendedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lente",
			Subsystem: "console",
			Name:      "messages_appended_total",
			Help:      "Total messages appended to conversations",
		},
		[]string{"role"},
	)
)

// RecordRequest records an HTTP request with duration
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint, status).Observe(durationSec)
}

// RecordUpstream records one agent platform call
func RecordUpstream(operation, status string, durationSec float64) {
	UpstreamRequestsTotal.WithLabelValues(operation, status).Inc()
	UpstreamDuration.WithLabelValues(operation).Observe(durationSec)
}

// RecordAuth records an authentication attempt outcome
func RecordAuth(status string) {
	AuthRequestsTotal.WithLabelValues(status).Inc()
}

// RecordMessageAppended records a persisted transcript turn
func RecordMessageAppended(role string, createdConversation bool) {
	MessagesAppendedTotal.WithLabelValues(role).Inc()
	if createdConversation {
		ConversationsCreatedTotal.Inc()
	}
}
