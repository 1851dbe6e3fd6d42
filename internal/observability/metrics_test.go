package observability

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewMetrics registers every collector against the global Prometheus
// registry, so the whole suite shares one instance to avoid a
// duplicate-registration panic on the second call.
var (
	testMetricsOnce sync.Once
	testMetrics     *Metrics
)

func sharedMetrics() *Metrics {
	testMetricsOnce.Do(func() {
		testMetrics = NewMetrics()
	})
	return testMetrics
}

func TestBoolLabel_MapsBoolToString(t *testing.T) {
	assert.Equal(t, "true", boolLabel(true))
	assert.Equal(t, "false", boolLabel(false))
}

func TestMetrics_RecordHTTPRequestDoesNotPanic(t *testing.T) {
	m := sharedMetrics()
	assert.NotPanics(t, func() {
		m.RecordHTTPRequest("GET", "/v1/documents", "200", 15*time.Millisecond)
	})
}

func TestMetrics_RecordExtractionDoesNotPanic(t *testing.T) {
	m := sharedMetrics()
	assert.NotPanics(t, func() {
		m.RecordExtraction(true, 20*time.Millisecond, map[string]int{"case": 3, "statute": 1})
	})
}

func TestMetrics_HandlerServesPrometheusFormat(t *testing.T) {
	m := sharedMetrics()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()

	m.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "citelink_")
}
