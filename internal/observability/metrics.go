// README: Prometheus metrics shared across modules.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GeocodeCalls    = promauto.NewCounter(prometheus.CounterOpts{Namespace: "mobiurban", Name: "geocode_calls_total", Help: "Total geocoding provider calls"})
	GeocodeFailures = promauto.NewCounter(prometheus.CounterOpts{Namespace: "mobiurban", Name: "geocode_failures_total", Help: "Geocoding provider calls that failed"})

	RideTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "mobiurban", Name: "ride_transitions_total", Help: "Ride lifecycle transitions applied"},
		[]string{"to"},
	)
	AcceptConflicts = promauto.NewCounter(prometheus.CounterOpts{Namespace: "mobiurban", Name: "ride_accept_conflicts_total", Help: "Accept attempts lost to a concurrent winner"})

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "mobiurban", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mobiurban",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
