package metrics

import (
	"strings"
	"testing"
)

func TestRenderIncludesAllSeries(t *testing.T) {
	IncProcessingStarted()
	IncProcessingCompleted()
	IncProcessingFailed("fetch")
	IncProcessingFailed("")
	ObserveProcessingDurationMs(1234)

	out := Render()
	for _, want := range []string{
		"report_processing_started_total",
		"report_processing_completed_total",
		`report_processing_failed_total{step="fetch"}`,
		`report_processing_failed_total{step="unknown"}`,
		"report_processing_duration_ms_bucket{le=\"+Inf\"}",
		"report_processing_duration_ms_sum",
		"report_processing_duration_ms_count",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("render missing %q:\n%s", want, out)
		}
	}
}

func TestHistogramBuckets(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	snap := h.Snapshot()
	if snap.count != 3 {
		t.Fatalf("count = %d", snap.count)
	}
	if snap.counts[0] != 1 || snap.counts[1] != 2 {
		t.Fatalf("bucket counts = %v", snap.counts)
	}
	if snap.sum != 555 {
		t.Fatalf("sum = %v", snap.sum)
	}
}
