package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initRunMetrics() {
	r.TileTypesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "siteroute_tile_types_total",
			Help: "Tile types processed, by outcome",
		},
		[]string{"status"},
	)

	r.TileTypeDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "siteroute_tile_type_duration_seconds",
			Help:    "Time spent routing one tile type",
			Buckets: []float64{0.001, 0.01, 0.1, 1, 10, 60, 600},
		},
		[]string{"tile_type"},
	)

	r.WorkersBusy = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "siteroute_workers_busy",
			Help: "Workers currently processing a tile type",
		},
	)

	r.ArtifactsWritten = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "siteroute_artifacts_written_total",
			Help: "Output files written, by format",
		},
		[]string{"format"},
	)
}
