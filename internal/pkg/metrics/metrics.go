// Package metrics defines all custom Prometheus metrics of the campus client.
// It is the single source of truth for metric names, labels, and help strings.
//
// Call Register() once at startup with the registry the portal exposes on
// /metrics. Unregistered collectors still count, so library code and tests
// can use them freely.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "campus"

// ── API client metrics ────────────────────────────────────────────────────────

// APIRequestsTotal counts finished API calls.
// Labels:
//   - method: HTTP method (GET, POST, ...)
//   - outcome: "ok", or the error kind ("network", "server", "protocol", "validation")
var APIRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Total number of campus API requests, by method and outcome.",
	},
	[]string{"method", "outcome"},
)

// APIRequestDuration measures round-trip time including body decoding.
var APIRequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_duration_seconds",
		Help:      "Duration of campus API requests from send to decoded response.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// AuthEventsTotal counts auth flow outcomes.
// Labels:
//   - flow: "login", "signup", "logout"
//   - result: "success" or the error kind
var AuthEventsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_events_total",
		Help:      "Total number of login, signup and logout attempts, by result.",
	},
	[]string{"flow", "result"},
)

// StorageErrorsTotal counts session storage failures that were degraded to
// "no session".
// Label:
//   - op: "get", "set", "delete"
var StorageErrorsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "storage_errors_total",
		Help:      "Total number of session storage operations that failed.",
	},
	[]string{"op"},
)

// Register adds every collector of this package to reg.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		APIRequestsTotal,
		APIRequestDuration,
		AuthEventsTotal,
		StorageErrorsTotal,
	)
}
