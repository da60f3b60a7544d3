package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveModelCallCountsOutcomes(t *testing.T) {
	r := New()
	r.ObserveModelCall("ats", nil, 120*time.Millisecond)
	r.ObserveModelCall("ats", errors.New("boom"), time.Second)
	r.ObserveModelCall("ats", nil, 0)

	assert.Equal(t, uint64(2), r.modelCalls.value("ats", OutcomeOK))
	assert.Equal(t, uint64(1), r.modelCalls.value("ats", OutcomeError))
	assert.Equal(t, uint64(3), r.modelDuration.Snapshot().count)
}

func TestNilRegistryIsNoop(t *testing.T) {
	var r *Registry
	r.ObserveModelCall("ats", nil, time.Second)
	r.ObserveConversion("pdf", nil, time.Second)
	assert.Empty(t, r.Render())
}

func TestHistogramBucketsAreCumulative(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	snap := h.Snapshot()
	assert.Equal(t, []uint64{1, 1}, snap.counts)
	assert.Equal(t, uint64(3), snap.count)
	assert.Equal(t, float64(555), snap.sum)
}

func TestHandlerRendersPrometheusText(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := New()
	reg.ObserveConversion("docx", nil, 40*time.Millisecond)

	r := gin.New()
	r.GET("/metrics", reg.Handler())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	body := w.Body.String()
	assert.Contains(t, body, "# TYPE document_conversions_total counter")
	assert.Contains(t, body, `document_conversions_total{format="docx",outcome="ok"} 1`)
	assert.Contains(t, body, `document_conversion_duration_ms_bucket{le="50"} 1`)
	assert.Contains(t, body, `document_conversion_duration_ms_bucket{le="+Inf"} 1`)
	assert.Contains(t, body, "# TYPE model_call_duration_ms histogram")
}
