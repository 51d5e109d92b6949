package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	SearchTurns      *prometheus.CounterVec
	GeocodeRequests  *prometheus.CounterVec
	GeocodeSeconds   *prometheus.HistogramVec
	RetrievalSeconds prometheus.Histogram
	RetrievalErrors  prometheus.Counter
	RadiusDiscarded  prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		SearchTurns: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "haven_search_turns_total",
			Help: "Total number of processed search turns.",
		}, []string{"outcome"}),
		GeocodeRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "haven_geocoding_requests_total",
			Help: "Total number of place names sent to the geocoding provider.",
		}, []string{"provider", "status"}),
		GeocodeSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "haven_geocoding_request_duration_seconds",
			Help:    "Duration of requests to the geocoding provider API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		RetrievalSeconds: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "haven_retrieval_duration_seconds",
			Help:    "Duration of candidate retrieval from the semantic index.",
			Buckets: prometheus.DefBuckets,
		}),
		RetrievalErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "haven_retrieval_errors_total",
			Help: "Total number of failed semantic index requests.",
		}),
		RadiusDiscarded: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "haven_radius_discarded_candidates",
			Help:    "Number of candidates discarded by the radius filter per turn.",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
		}),
	}
}
