// Package metrics holds the Prometheus collectors shared across the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker/v2"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mangashelf_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mangashelf_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	CatalogRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mangashelf_catalog_requests_total",
			Help: "Kitsu API calls by endpoint and outcome (success, failure, rejected)",
		},
		[]string{"endpoint", "outcome"},
	)

	CatalogDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mangashelf_catalog_request_duration_seconds",
			Help:    "Kitsu API call latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mangashelf_circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)

	DigPages = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mangashelf_recommend_dig_pages",
			Help:    "Catalog pages fetched per recommendation request",
			Buckets: []float64{1, 2, 3, 4, 5, 6, 8, 10},
		},
	)

	Recommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mangashelf_recommendations_total",
			Help: "Recommendation requests by outcome and whether the genre was overridden",
		},
		[]string{"outcome", "override"},
	)
)

// BreakerStateValue maps a breaker state onto the gauge scale.
func BreakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
