package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequestsTotal tracks outbound calls to the assessment API.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maturity_api_requests_total",
			Help: "Total number of assessment API requests (by route group, method, and status).",
		},
		[]string{"route", "method", "status"},
	)

	// APIRequestDuration measures outbound call latency, timeouts included.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "maturity_api_request_duration_seconds",
			Help:    "Duration of assessment API requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 15), // 5ms → ~80s
		},
		[]string{"route", "method"},
	)

	// APITimeouts counts calls abandoned by the client-side deadline.
	APITimeouts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maturity_api_timeouts_total",
			Help: "Requests abandoned after exceeding the client timeout.",
		},
		[]string{"route"},
	)

	// AuthFailures counts 401/403 responses that forced a sign-out.
	AuthFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "maturity_auth_failures_total",
			Help: "Authentication failures that cleared the stored credential.",
		},
	)

	// SessionEvents counts session state changes by type and publish result.
	SessionEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maturity_session_events_total",
			Help: "Session events emitted (signed_in, signed_out, expired).",
		},
		[]string{"type", "result"}, // result = "ok" | "error"
	)

	// MockRequestsTotal counts requests served by the development backend.
	MockRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maturity_mock_requests_total",
			Help: "Requests served by the mock assessment API (by route and status).",
		},
		[]string{"route", "status"},
	)
)

// ObserveRequest records one completed call. status 0 means no response
// was received.
func ObserveRequest(route, method string, status int, start time.Time) {
	label := "none"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	APIRequestsTotal.WithLabelValues(route, method, label).Inc()
	APIRequestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
}

// IncTimeout increments the timeout counter for a route group.
func IncTimeout(route string) {
	APITimeouts.WithLabelValues(route).Inc()
}

// IncAuthFailure increments the auth failure counter.
func IncAuthFailure() {
	AuthFailures.Inc()
}

// IncSessionEvent records a session event publish attempt.
func IncSessionEvent(eventType string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	SessionEvents.WithLabelValues(eventType, result).Inc()
}

// IncMockRequest records one request served by the mock backend.
func IncMockRequest(route string, status int) {
	MockRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
}
