package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// Authorization metrics
	authorizationDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authorization_decisions_total",
			Help: "Total number of authorization decisions",
		},
		[]string{"resource_type", "action", "decision"},
	)

	classificationFiltered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classification_filtered_total",
			Help: "Total number of items withheld by classification filtering",
		},
		[]string{"resource_type"},
	)

	grantLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grant_lookups_total",
			Help: "Total number of explicit case grant lookups",
		},
		[]string{"outcome"},
	)

	// Case lifecycle metrics
	auditEntriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "audit_entries_total",
			Help: "Total number of audit entries recorded",
		},
	)

	callbackRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "callback_requests_total",
			Help: "Total number of definition callback invocations",
		},
		[]string{"kind", "status"},
	)

	callbackRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "callback_request_duration_seconds",
			Help:    "Definition callback duration in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"kind"},
	)

	// Database metrics
	dbQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)
)

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware creates HTTP metrics middleware
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)

		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// normalizePath normalizes URL paths for metrics to avoid cardinality explosion
func normalizePath(path string) string {
	if len(path) > 100 {
		return "/api/..."
	}
	return path
}

// RecordAuthorizationDecision records an authorization decision
func RecordAuthorizationDecision(resourceType, action string, allowed bool) {
	decision := "deny"
	if allowed {
		decision = "allow"
	}
	authorizationDecisions.WithLabelValues(resourceType, action, decision).Inc()
}

// RecordClassificationFiltered records items withheld from a response
func RecordClassificationFiltered(resourceType string, count int) {
	if count > 0 {
		classificationFiltered.WithLabelValues(resourceType).Add(float64(count))
	}
}

// RecordGrantLookup records an explicit grant lookup
func RecordGrantLookup(granted bool) {
	outcome := "denied"
	if granted {
		outcome = "granted"
	}
	grantLookups.WithLabelValues(outcome).Inc()
}

// RecordAuditEntry records an audit entry write
func RecordAuditEntry() {
	auditEntriesTotal.Inc()
}

// RecordCallback records a definition callback invocation
func RecordCallback(kind, status string, duration time.Duration) {
	callbackRequestsTotal.WithLabelValues(kind, status).Inc()
	callbackRequestDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordDBQuery records a database query duration
func RecordDBQuery(operation string, duration time.Duration) {
	dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
