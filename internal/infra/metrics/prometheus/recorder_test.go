package prometheus

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"rigsmith/internal/core"
)

var _ core.MetricsRecorder = (*Recorder)(nil)

func TestRecorderCountsByStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewRecorder(reg, "rigsmith")
	ctx := context.Background()
	rec.Observe(ctx, "search", true, 2*time.Millisecond)
	rec.Observe(ctx, "search", true, 3*time.Millisecond)
	rec.Observe(ctx, "auto_build", false, time.Second)
	rec.Observe(ctx, "", true, time.Second)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	counts := map[string]float64{}
	var histograms uint64
	for _, mf := range families {
		switch mf.GetName() {
		case "rigsmith_engine_operations_total":
			for _, m := range mf.GetMetric() {
				var op, status string
				for _, l := range m.GetLabel() {
					switch l.GetName() {
					case "operation":
						op = l.GetValue()
					case "status":
						status = l.GetValue()
					}
				}
				counts[op+"/"+status] = m.GetCounter().GetValue()
			}
		case "rigsmith_engine_operation_duration_seconds":
			for _, m := range mf.GetMetric() {
				histograms += m.GetHistogram().GetSampleCount()
			}
		}
	}
	if counts["search/success"] != 2 || counts["auto_build/error"] != 1 || len(counts) != 2 {
		t.Fatalf("unexpected counters %v", counts)
	}
	if histograms != 3 {
		t.Fatalf("expected 3 latency samples, got %d", histograms)
	}
}

func TestNewRecorderNilRegistry(t *testing.T) {
	rec := NewRecorder(nil, "")
	rec.Observe(context.Background(), "check_build", true, time.Millisecond)
}
