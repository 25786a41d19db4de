package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the issuance
// and verification pipelines.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	issuedTotal     *prometheus.CounterVec
	renderDuration  *prometheus.HistogramVec
	renderFailures  *prometheus.CounterVec
	verifyTotal     *prometheus.CounterVec
	revokedTotal    prometheus.Counter
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	issuedTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "documents_issued_total",
		Help: "Total documents issued, by kind",
	}, []string{"kind"})

	renderDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "document_render_duration_seconds",
		Help:    "Duration of PDF render pipeline runs",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	renderFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "document_render_failures_total",
		Help: "Render pipeline failures, by kind",
	}, []string{"kind"})

	verifyTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "verifications_total",
		Help: "Verification lookups, by verdict",
	}, []string{"verdict"})

	revokedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "documents_revoked_total",
		Help: "Total documents revoked",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total verdict cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total verdict cache misses",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, issuedTotal, renderDuration, renderFailures, verifyTotal, revokedTotal, cacheHits, cacheMisses, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		issuedTotal:     issuedTotal,
		renderDuration:  renderDuration,
		renderFailures:  renderFailures,
		verifyTotal:     verifyTotal,
		revokedTotal:    revokedTotal,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordIssued counts a successfully persisted document.
func (m *MetricsService) RecordIssued(kind string) {
	if m == nil {
		return
	}
	m.issuedTotal.WithLabelValues(kind).Inc()
}

// ObserveRender records one render pipeline run.
func (m *MetricsService) ObserveRender(kind string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.renderDuration.WithLabelValues(kind).Observe(duration.Seconds())
	if err != nil {
		m.renderFailures.WithLabelValues(kind).Inc()
	}
}

// RecordVerification counts a verification lookup by its verdict.
func (m *MetricsService) RecordVerification(verdict string) {
	if m == nil {
		return
	}
	m.verifyTotal.WithLabelValues(verdict).Inc()
}

// RecordRevocation counts a revocation.
func (m *MetricsService) RecordRevocation() {
	if m == nil {
		return
	}
	m.revokedTotal.Inc()
}

// RecordCacheLookup counts a verdict cache hit or miss.
func (m *MetricsService) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}
