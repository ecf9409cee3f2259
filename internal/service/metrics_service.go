package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsSnapshot is a lightweight summary of the console's counters.
type MetricsSnapshot struct {
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	GuardDecisions           uint64    `json:"guard_decisions"`
	WizardTransitions        uint64    `json:"wizard_transitions"`
	SessionEvents            uint64    `json:"session_events"`
	ActiveSessions           int       `json:"active_sessions"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry          *prometheus.Registry
	handler           http.Handler
	requestDuration   *prometheus.HistogramVec
	requestTotal      *prometheus.CounterVec
	guardDecisions    *prometheus.CounterVec
	wizardTransitions *prometheus.CounterVec
	sessionEvents     *prometheus.CounterVec
	backendDuration   *prometheus.HistogramVec
	activeSessions    prometheus.Gauge

	requestCount         uint64
	requestDurationTotal uint64
	guardCount           uint64
	wizardCount          uint64
	sessionEventCount    uint64
	activeSessionCount   int64
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

	guardDecisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "route_guard_decisions_total",
		Help: "Route guard decisions by outcome",
	}, []string{"outcome"})

	wizardTransitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wizard_transitions_total",
		Help: "Multi-step form navigation attempts by form, action and result",
	}, []string{"form", "action", "result"})

	sessionEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "session_events_total",
		Help: "Session transitions by type",
	}, []string{"type"})

	backendDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "backend_request_duration_seconds",
		Help:    "Duration of calls to the gym backend",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	activeSessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sessions_active",
		Help: "Browser sessions currently held in memory",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, guardDecisions, wizardTransitions, sessionEvents, backendDuration, activeSessions, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:          registry,
		handler:           handler,
		requestDuration:   requestDuration,
		requestTotal:      requestTotal,
		guardDecisions:    guardDecisions,
		wizardTransitions: wizardTransitions,
		sessionEvents:     sessionEvents,
		backendDuration:   backendDuration,
		activeSessions:    activeSessions,
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

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordGuardDecision counts one route guard outcome.
func (m *MetricsService) RecordGuardDecision(outcome string) {
	if m == nil {
		return
	}
	m.guardDecisions.WithLabelValues(outcome).Inc()
	atomic.AddUint64(&m.guardCount, 1)
}

// RecordWizardTransition counts one navigation attempt on a multi-step form.
func (m *MetricsService) RecordWizardTransition(form, action string, ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "rejected"
	}
	m.wizardTransitions.WithLabelValues(form, action, result).Inc()
	atomic.AddUint64(&m.wizardCount, 1)
}

// RecordSessionEvent counts one session transition.
func (m *MetricsService) RecordSessionEvent(eventType string) {
	if m == nil {
		return
	}
	m.sessionEvents.WithLabelValues(eventType).Inc()
	atomic.AddUint64(&m.sessionEventCount, 1)
}

// ObserveBackendCall records the latency of one backend operation.
func (m *MetricsService) ObserveBackendCall(operation string, duration time.Duration) {
	if m == nil {
		return
	}
	m.backendDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetActiveSessions publishes the number of in-memory sessions.
func (m *MetricsService) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(n))
	atomic.StoreInt64(&m.activeSessionCount, int64(n))
}

// Snapshot returns aggregated metrics suitable for the dashboard.
func (m *MetricsService) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	return MetricsSnapshot{
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		GuardDecisions:           atomic.LoadUint64(&m.guardCount),
		WizardTransitions:        atomic.LoadUint64(&m.wizardCount),
		SessionEvents:            atomic.LoadUint64(&m.sessionEventCount),
		ActiveSessions:           int(atomic.LoadInt64(&m.activeSessionCount)),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
