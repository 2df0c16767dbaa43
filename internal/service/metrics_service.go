package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	loginTotal      *prometheus.CounterVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	simulationRuns  *prometheus.CounterVec
	simulationTime  prometheus.Histogram
	encounterTotal  *prometheus.CounterVec
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

	loginTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "login_attempts_total",
		Help: "Total login attempts by outcome",
	}, []string{"outcome"})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scope_cache_hits_total",
		Help: "Total scope cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scope_cache_misses_total",
		Help: "Total scope cache misses",
	})

	simulationRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "simulation_runs_total",
		Help: "Total simulation runs by final status",
	}, []string{"status"})

	simulationTime := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "simulation_duration_seconds",
		Help:    "Wall clock duration of simulation runs",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
	})

	encounterTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "simulation_encounters_total",
		Help: "Total simulated encounters by outcome",
	}, []string{"outcome"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, loginTotal, cacheHits, cacheMisses, simulationRuns, simulationTime, encounterTotal, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		loginTotal:      loginTotal,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		simulationRuns:  simulationRuns,
		simulationTime:  simulationTime,
		encounterTotal:  encounterTotal,
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

// RecordLogin counts a login attempt by outcome (success, failure, blocked).
func (m *MetricsService) RecordLogin(outcome string) {
	if m == nil {
		return
	}
	m.loginTotal.WithLabelValues(outcome).Inc()
}

// RecordCacheLookup counts a scope cache hit or miss.
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

// RecordSimulationRun counts a finished run and its wall clock time.
func (m *MetricsService) RecordSimulationRun(status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.simulationRuns.WithLabelValues(status).Inc()
	m.simulationTime.Observe(duration.Seconds())
}

// RecordEncounter counts a simulated encounter by outcome.
func (m *MetricsService) RecordEncounter(outcome string) {
	if m == nil {
		return
	}
	m.encounterTotal.WithLabelValues(outcome).Inc()
}
