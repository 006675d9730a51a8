package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsServiceCounters(t *testing.T) {
	m := NewMetricsService()

	m.ObserveHTTPRequest(http.MethodGet, "/lista", http.StatusOK, 10*time.Millisecond)
	m.RecordAuthEvent(EventLoginFailure)
	m.RecordAuthEvent(EventLoginFailure)
	m.RecordMutation(MutationStamp, 4)
	m.RecordMutation(MutationCreate, 1)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestTotal.WithLabelValues("GET", "/lista", "200")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.authEvents.WithLabelValues(EventLoginFailure)))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.stampedRecords))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues(MutationCreate)))

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, w.Body.String(), "tutorias_stamped_records_total 4")
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	m.RecordAuthEvent(EventLogout)
	m.RecordMutation(MutationDelete, 1)
	m.ObserveHTTPRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	assert.Nil(t, m.Registry())

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
