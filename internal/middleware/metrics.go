package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the form server.
type Metrics struct {
	registry *prometheus.Registry

	requests  *prometheus.CounterVec
	durations *prometheus.HistogramVec

	// DocumentsRendered counts generated documents by format (pdf, html).
	DocumentsRendered *prometheus.CounterVec
	// Imports counts import attempts by result (ok, rejected).
	Imports *prometheus.CounterVec
	// RejectedEdits counts edits refused by the form, by reason.
	RejectedEdits *prometheus.CounterVec
}

// NewMetrics creates and registers all collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "giftdeed_http_requests_total",
			Help: "HTTP requests by route pattern, method and status code.",
		}, []string{"route", "method", "code"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "giftdeed_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		DocumentsRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "giftdeed_documents_rendered_total",
			Help: "Contract documents generated, by output format.",
		}, []string{"format"}),
		Imports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "giftdeed_imports_total",
			Help: "Contract data imports, by result.",
		}, []string{"result"}),
		RejectedEdits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "giftdeed_rejected_edits_total",
			Help: "Form edits rejected, by reason.",
		}, []string{"reason"}),
	}
	reg.MustRegister(
		m.requests,
		m.durations,
		m.DocumentsRendered,
		m.Imports,
		m.RejectedEdits,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Instrument records request counts and latencies.
// The route label is the ServeMux pattern, so IDs do not explode cardinality.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		m.durations.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
