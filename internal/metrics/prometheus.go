package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Projection pipeline metrics
	ProjectionRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gridiron_projection_requests_total",
			Help: "Total number of projection requests",
		},
		[]string{"market", "status"}, // status: success|player_not_found|market_not_found|no_active_model|lookback_mismatch|feature_not_found|artifact_missing|inference_error|internal_error
	)

	ProjectionLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gridiron_projection_latency_seconds",
			Help:    "Projection pipeline latency in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"market"},
	)

	PredictionValue = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gridiron_prediction_value",
			Help:    "Distribution of served prediction values",
			Buckets: prometheus.LinearBuckets(0, 25, 16),
		},
		[]string{"market", "model"},
	)

	// Artifact cache metrics
	ArtifactCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gridiron_artifact_cache_hits_total",
			Help: "Artifact cache hits",
		},
	)

	ArtifactCacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gridiron_artifact_cache_misses_total",
			Help: "Artifact cache misses (deserializations)",
		},
	)

	// HTTP metrics
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gridiron_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "code"},
	)

	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gridiron_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"route"},
	)

	HTTPRateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gridiron_http_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
	)

	// Database metrics
	DBQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gridiron_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gridiron_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"operation"},
	)
)

func init() {
	prometheus.MustRegister(ProjectionRequests)
	prometheus.MustRegister(ProjectionLatency)
	prometheus.MustRegister(PredictionValue)
	prometheus.MustRegister(ArtifactCacheHits)
	prometheus.MustRegister(ArtifactCacheMisses)
	prometheus.MustRegister(HTTPRequests)
	prometheus.MustRegister(HTTPDuration)
	prometheus.MustRegister(HTTPRateLimited)
	prometheus.MustRegister(DBQueries)
	prometheus.MustRegister(DBQueryDuration)
}

// Handler returns the HTTP handler for the /metrics endpoint
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordProjection records one pipeline outcome
func RecordProjection(market, status string, latency time.Duration) {
	ProjectionRequests.WithLabelValues(market, status).Inc()
	ProjectionLatency.WithLabelValues(market).Observe(latency.Seconds())
}

// RecordPrediction records a served prediction value
func RecordPrediction(market, model string, value float64) {
	PredictionValue.WithLabelValues(market, model).Observe(value)
}

// RecordArtifactCache records a cache lookup
func RecordArtifactCache(hit bool) {
	if hit {
		ArtifactCacheHits.Inc()
	} else {
		ArtifactCacheMisses.Inc()
	}
}

// RecordHTTPRequest records one served HTTP request
func RecordHTTPRequest(route string, code int, duration time.Duration) {
	HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	HTTPDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordRateLimited records a request rejected by the rate limiter
func RecordRateLimited() {
	HTTPRateLimited.Inc()
}

// RecordDBQuery records a database query
func RecordDBQuery(operation string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	DBQueries.WithLabelValues(operation, status).Inc()
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
