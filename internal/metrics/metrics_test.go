package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveAvailability(t *testing.T) {
	m := New()

	m.ObserveAvailability("ok")
	m.ObserveAvailability("slot_taken")
	m.ObserveAvailability("slot_taken")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.availability.WithLabelValues("ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.availability.WithLabelValues("slot_taken")))
}

func TestHandlerExposesCounters(t *testing.T) {
	m := New()
	m.ObserveHTTPRequest(http.MethodPost, "/api/bookings", http.StatusCreated, 20*time.Millisecond)
	m.ObserveCacheLookup(true)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `http_requests_total{method="POST",path="/api/bookings",status="201"} 1`)
	assert.Contains(t, w.Body.String(), `window_cache_lookups_total{outcome="hit"} 1`)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAvailability("ok")
	m.ObserveHTTPRequest("GET", "/", 200, time.Millisecond)
	m.ObserveCacheLookup(false)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
