package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SearchRequestsTotal counts search pipeline runs by outcome
	SearchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bharatlens_search_requests_total",
			Help: "Total number of brand search requests executed",
		},
		[]string{"status"},
	)

	// SearchDuration tracks end-to-end pipeline latency
	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bharatlens_search_duration_seconds",
			Help:    "Duration of brand search requests in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
	)

	// AugmentationFailures counts degraded Exa lookups
	AugmentationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bharatlens_augmentation_failures_total",
			Help: "Total number of failed Exa augmentation lookups",
		},
	)
)

// RecordSearch updates search metrics for one completed request
func RecordSearch(status string, seconds float64) {
	SearchRequestsTotal.WithLabelValues(status).Inc()
	SearchDuration.Observe(seconds)
}
