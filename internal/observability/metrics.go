package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects Prometheus metrics for the application.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	aggregationRuns     *prometheus.CounterVec
	aggregationDuration *prometheus.HistogramVec
	skippedRecords      prometheus.Counter
}

// NewMetrics initialises the registry and base collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "feastline_http_requests_total",
		Help: "HTTP requests partitioned by route and status code.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "feastline_http_request_duration_seconds",
		Help:    "HTTP request duration per route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	aggRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "feastline_aggregation_runs_total",
		Help: "Dashboard aggregation cycles partitioned by time window.",
	}, []string{"window"})
	aggDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "feastline_aggregation_duration_seconds",
		Help:    "Duration of dashboard aggregation cycles per time window.",
		Buckets: prometheus.DefBuckets,
	}, []string{"window"})
	skipped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "feastline_skipped_records_total",
		Help: "Order records dropped during aggregation because of malformed fields.",
	})
	registry.MustRegister(requests, duration, aggRuns, aggDuration, skipped)
	return &Metrics{
		registry:            registry,
		handler:             promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:       requests,
		requestDuration:     duration,
		aggregationRuns:     aggRuns,
		aggregationDuration: aggDuration,
		skippedRecords:      skipped,
	}
}

// Handler returns the http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records request metrics for every HTTP request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// ObserveAggregation records telemetry for one aggregation cycle. It
// satisfies the dashboard service's Recorder contract.
func (m *Metrics) ObserveAggregation(window string, duration time.Duration, skipped int) {
	if m == nil {
		return
	}
	m.aggregationRuns.WithLabelValues(window).Inc()
	m.aggregationDuration.WithLabelValues(window).Observe(duration.Seconds())
	if skipped > 0 {
		m.skippedRecords.Add(float64(skipped))
	}
}

// Registerer exposes the registry for custom collector registration.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
