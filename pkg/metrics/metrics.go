package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TileTypeStats is what one tile type contributes to the metrics.
type TileTypeStats struct {
	Connections   int
	Routes        int
	Steps         int
	Truncated     int
	RoutesPerPair []int
	RawClauses    int
	RawLiterals   int
	Clauses       int
	Literals      int
}

// RecordTileType records a finished tile type.
func (r *Registry) RecordTileType(tileType, status string, duration time.Duration, s TileTypeStats) {
	r.TileTypesTotal.WithLabelValues(status).Inc()
	r.TileTypeDuration.WithLabelValues(tileType).Observe(duration.Seconds())

	r.ConnectionsTotal.WithLabelValues(tileType).Add(float64(s.Connections))
	r.RoutesTotal.WithLabelValues(tileType).Add(float64(s.Routes))
	r.RouterSteps.WithLabelValues(tileType).Add(float64(s.Steps))
	r.TruncatedPairs.WithLabelValues(tileType).Add(float64(s.Truncated))
	hist := r.RoutesPerPair.WithLabelValues(tileType)
	for _, n := range s.RoutesPerPair {
		hist.Observe(float64(n))
	}

	r.FormulaClauses.WithLabelValues("raw").Add(float64(s.RawClauses))
	r.FormulaClauses.WithLabelValues("optimized").Add(float64(s.Clauses))
	r.FormulaLiterals.WithLabelValues("raw").Add(float64(s.RawLiterals))
	r.FormulaLiterals.WithLabelValues("optimized").Add(float64(s.Literals))
}

// RecordSiteGraph records the size of a site type's graph.
func (r *Registry) RecordSiteGraph(siteType string, nodes, edges int) {
	r.SiteGraphNodes.WithLabelValues(siteType).Set(float64(nodes))
	r.SiteGraphEdges.WithLabelValues(siteType).Set(float64(edges))
}

// RecordArtifact counts one written output file.
func (r *Registry) RecordArtifact(format string) {
	r.ArtifactsWritten.WithLabelValues(format).Inc()
}

// WorkerStarted and WorkerDone track busy workers.
func (r *Registry) WorkerStarted() { r.WorkersBusy.Inc() }

func (r *Registry) WorkerDone() { r.WorkersBusy.Dec() }

// UpdateSystemMetrics samples runtime statistics.
func (r *Registry) UpdateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))
	r.MemoryAllocBytes.Set(float64(m.Alloc))
}

// WriteTextfile writes every metric to path in the Prometheus text format,
// for node_exporter's textfile collector.
func (r *Registry) WriteTextfile(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.UpdateSystemMetrics()
	return prometheus.WriteToTextfile(path, r.registry)
}
