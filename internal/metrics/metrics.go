// Package metrics defines and registers all custom Prometheus metrics for the
// portal gateway. It is the single source of truth for metric names, labels,
// and help strings. Metrics register with the default registry at import time
// via promauto and are served on /metrics by the facade.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// RemoteRequestsTotal counts calls to the clinical API.
// Labels:
//   - endpoint: logical endpoint name (e.g. "auth", "profile", "records")
//   - outcome: "ok", "rejected" (non-2xx), or "error" (transport failure)
var RemoteRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "remote_requests_total",
		Help:      "Total number of requests issued to the clinical API.",
	},
	[]string{"endpoint", "outcome"},
)

// RemoteRequestDuration measures clinical API round-trip time per endpoint.
var RemoteRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "remote_request_duration_seconds",
		Help:      "Duration of clinical API requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"endpoint"},
)

// LoginsTotal counts login attempts per portal.
// Labels:
//   - portal: the portal the user selected
//   - result: "success", "denied" (role gate), or "failed"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by portal and result.",
	},
	[]string{"portal", "result"},
)

// SessionResetsTotal counts full session resets.
// Label:
//   - reason: "logout" or "load_failure"
var SessionResetsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_resets_total",
		Help:      "Total number of session resets, by reason.",
	},
	[]string{"reason"},
)
