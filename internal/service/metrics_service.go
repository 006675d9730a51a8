package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Auth events counted by MetricsService.
const (
	EventRegister       = "register"
	EventLoginSuccess   = "login_success"
	EventLoginFailure   = "login_failure"
	EventGestaoUnlock   = "gestao_unlock"
	EventGestaoPINError = "gestao_pin_failure"
	EventLogout         = "logout"
)

// Record mutations counted by MetricsService.
const (
	MutationCreate = "create"
	MutationUpdate = "update"
	MutationDelete = "delete"
	MutationStamp  = "stamp"
)

// MetricsService encapsulates Prometheus instrumentation. A nil receiver is a
// valid no-op recorder.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	authEvents      *prometheus.CounterVec
	mutations       *prometheus.CounterVec
	stampedRecords  prometheus.Counter
}

// NewMetricsService registers the collectors on a private registry.
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

	authEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tutorias_auth_events_total",
		Help: "Registration, login and gestão mode events",
	}, []string{"event"})

	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tutorias_mutations_total",
		Help: "Record mutations by operation",
	}, []string{"operation"})

	stampedRecords := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tutorias_stamped_records_total",
		Help: "Records that received a carimbo",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, authEvents, mutations, stampedRecords, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		authEvents:      authEvents,
		mutations:       mutations,
		stampedRecords:  stampedRecords,
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
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
	labelStatus := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordAuthEvent counts an authentication event.
func (m *MetricsService) RecordAuthEvent(event string) {
	if m == nil {
		return
	}
	m.authEvents.WithLabelValues(event).Inc()
}

// RecordMutation counts a record mutation. Stamps also add the number of
// records touched.
func (m *MetricsService) RecordMutation(operation string, records int64) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(operation).Inc()
	if operation == MutationStamp && records > 0 {
		m.stampedRecords.Add(float64(records))
	}
}
