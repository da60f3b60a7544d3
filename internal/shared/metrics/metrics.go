package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

var durationBuckets = []float64{50, 100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000}

// Registry holds the process counters. A nil *Registry records nothing.
type Registry struct {
	modelCalls    *counterVec
	modelDuration *histogram

	conversions        *counterVec
	conversionDuration *histogram
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		modelCalls:         newCounterVec("model_calls_total", "Model requests by check and outcome", "check", "outcome"),
		modelDuration:      newHistogram(durationBuckets),
		conversions:        newCounterVec("document_conversions_total", "Document conversions by format and outcome", "format", "outcome"),
		conversionDuration: newHistogram(durationBuckets),
	}
}

// ObserveModelCall records one model request, retries included.
func (r *Registry) ObserveModelCall(check string, err error, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.modelCalls.Inc(check, outcome(err))
	r.modelDuration.Observe(millis(elapsed))
}

// ObserveConversion records one document conversion.
func (r *Registry) ObserveConversion(format string, err error, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.conversions.Inc(format, outcome(err))
	r.conversionDuration.Observe(millis(elapsed))
}

// Handler exposes metrics in Prometheus text format.
func (r *Registry) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, r.Render())
	}
}

// Render renders metrics in Prometheus text format.
func (r *Registry) Render() string {
	if r == nil {
		return ""
	}
	var buf bytes.Buffer
	r.modelCalls.write(&buf)
	writeHistogram(&buf, "model_call_duration_ms", "Model request duration in milliseconds", r.modelDuration.Snapshot())
	r.conversions.write(&buf)
	writeHistogram(&buf, "document_conversion_duration_ms", "Document conversion duration in milliseconds", r.conversionDuration.Snapshot())
	return buf.String()
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}

func millis(d time.Duration) float64 {
	if d < 0 {
		return 0
	}
	return float64(d) / float64(time.Millisecond)
}

type counterVec struct {
	name   string
	help   string
	labels []string

	mu     sync.Mutex
	values map[string]uint64
}

func newCounterVec(name, help string, labels ...string) *counterVec {
	return &counterVec{name: name, help: help, labels: labels, values: make(map[string]uint64)}
}

// Inc increments the series identified by values, given in label order.
func (v *counterVec) Inc(values ...string) {
	pairs := make([]string, len(v.labels))
	for i, label := range v.labels {
		val := ""
		if i < len(values) {
			val = values[i]
		}
		pairs[i] = fmt.Sprintf("%s=%q", label, val)
	}
	key := strings.Join(pairs, ",")
	v.mu.Lock()
	v.values[key]++
	v.mu.Unlock()
}

func (v *counterVec) value(values ...string) uint64 {
	pairs := make([]string, len(v.labels))
	for i, label := range v.labels {
		pairs[i] = fmt.Sprintf("%s=%q", label, values[i])
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.values[strings.Join(pairs, ",")]
}

func (v *counterVec) write(buf *bytes.Buffer) {
	v.mu.Lock()
	keys := make([]string, 0, len(v.values))
	for k := range v.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	snapshot := make([]uint64, len(keys))
	for i, k := range keys {
		snapshot[i] = v.values[k]
	}
	v.mu.Unlock()

	fmt.Fprintf(buf, "# HELP %s %s\n", v.name, v.help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", v.name)
	for i, k := range keys {
		fmt.Fprintf(buf, "%s{%s} %d\n", v.name, k, snapshot[i])
	}
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

// Observe counts value in the first bucket that holds it; writeHistogram
// accumulates.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
