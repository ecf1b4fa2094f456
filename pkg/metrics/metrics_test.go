package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var metric dto.Metric
	if err := c.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.GetCounter().GetValue()
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r.TileTypesTotal == nil || r.RoutesTotal == nil || r.FormulaClauses == nil || r.GoRoutines == nil {
		t.Fatal("metrics not initialized")
	}
	if r.Gatherer() == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	if DefaultRegistry() != DefaultRegistry() {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestRecordTileType(t *testing.T) {
	r := NewRegistry()

	r.RecordTileType("CLB", "ok", 20*time.Millisecond, TileTypeStats{
		Connections:   3,
		Routes:        5,
		Steps:         40,
		Truncated:     1,
		RoutesPerPair: []int{1, 2, 2},
		RawClauses:    6,
		RawLiterals:   9,
		Clauses:       4,
		Literals:      5,
	})
	r.RecordTileType("IOI", "failed", time.Millisecond, TileTypeStats{})

	tests := []struct {
		name string
		c    prometheus.Counter
		want float64
	}{
		{"ok tile types", r.TileTypesTotal.WithLabelValues("ok"), 1},
		{"failed tile types", r.TileTypesTotal.WithLabelValues("failed"), 1},
		{"connections", r.ConnectionsTotal.WithLabelValues("CLB"), 3},
		{"routes", r.RoutesTotal.WithLabelValues("CLB"), 5},
		{"steps", r.RouterSteps.WithLabelValues("CLB"), 40},
		{"truncated", r.TruncatedPairs.WithLabelValues("CLB"), 1},
		{"raw clauses", r.FormulaClauses.WithLabelValues("raw"), 6},
		{"optimized literals", r.FormulaLiterals.WithLabelValues("optimized"), 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := counterValue(t, tt.c); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	obs, err := r.RoutesPerPair.GetMetricWithLabelValues("CLB")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	var metric dto.Metric
	if err := obs.(prometheus.Histogram).Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if got := metric.GetHistogram().GetSampleCount(); got != 3 {
		t.Errorf("routes per pair samples = %d, want 3", got)
	}
}

func TestWorkersBusy(t *testing.T) {
	r := NewRegistry()
	r.WorkerStarted()
	r.WorkerStarted()
	r.WorkerDone()

	var metric dto.Metric
	if err := r.WorkersBusy.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if got := metric.GetGauge().GetValue(); got != 1 {
		t.Errorf("workers busy = %v, want 1", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	r := NewRegistry()
	r.RecordSiteGraph("SLICE", 15, 14)
	r.RecordArtifact("json")

	path := filepath.Join(t.TempDir(), "siteroute.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`siteroute_site_graph_nodes{site_type="SLICE"} 15`,
		`siteroute_artifacts_written_total{format="json"} 1`,
		"siteroute_goroutines",
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("textfile does not contain %q", want)
		}
	}
}
