package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ScoringErrors counts candidates skipped because scoring failed or panicked.
	ScoringErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "petfit_scoring_errors_total",
		Help: "Total number of candidates skipped due to a scoring failure",
	})

	// FilterOutcomes counts candidates by the pipeline stage that decided them.
	// Labels:
	//   - outcome: ranked, parsed_none, safety_filtered, fitness_filtered, total_score_filtered, price_filtered
	FilterOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "petfit_ranking_candidates_total",
			Help: "Total number of candidates by ranking outcome",
		},
		[]string{"outcome"},
	)

	// CacheLookups counts recommendation cache reads.
	// Labels:
	//   - tier: ephemeral, durable
	//   - result: hit, miss, stale, error
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "petfit_cache_lookups_total",
			Help: "Total number of recommendation cache lookups by tier and result",
		},
		[]string{"tier", "result"},
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "petfit_recommendation_duration_seconds",
			Help:    "Duration of recommendation requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"source"},
	)

	// ExplanationFailures counts explanation generator calls that produced no text.
	// Labels:
	//   - reason: error, breaker_open, rate_limited
	ExplanationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "petfit_explanation_failures_total",
			Help: "Total number of failed explanation generations",
		},
		[]string{"reason"},
	)

	InvalidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "petfit_cache_invalidations_total",
			Help: "Total number of cache invalidations by scope",
		},
		[]string{"scope"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "petfit_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "petfit_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

func ObserveCacheLookup(tier, result string) {
	CacheLookups.WithLabelValues(tier, result).Inc()
}

func ObserveRecommendation(source string, dur time.Duration) {
	RecommendationDuration.WithLabelValues(source).Observe(dur.Seconds())
}

func ObserveHTTP(method, route, status string, dur time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequests.WithLabelValues(method, route, status).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(dur.Seconds())
}
