package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the set of collectors a preprocessing run reports to. Each
// Registry owns its prometheus.Registry, so tests can use fresh ones.
type Registry struct {
	// run
	TileTypesTotal   *prometheus.CounterVec
	TileTypeDuration *prometheus.HistogramVec
	WorkersBusy      prometheus.Gauge
	ArtifactsWritten *prometheus.CounterVec

	// routing
	SiteGraphNodes    *prometheus.GaugeVec
	SiteGraphEdges    *prometheus.GaugeVec
	ConnectionsTotal  *prometheus.CounterVec
	RoutesTotal       *prometheus.CounterVec
	RouterSteps       *prometheus.CounterVec
	TruncatedPairs    *prometheus.CounterVec
	RoutesPerPair     *prometheus.HistogramVec

	// formulas
	FormulaClauses  *prometheus.CounterVec
	FormulaLiterals *prometheus.CounterVec

	// process
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge

	registry *prometheus.Registry
	mu       sync.Mutex // serializes textfile writes
}

var defaultRegistry = sync.OnceValue(NewRegistry)

// DefaultRegistry is the process-wide Registry used when a run is not
// given one.
func DefaultRegistry() *Registry { return defaultRegistry() }

// NewRegistry registers every collector on a new prometheus.Registry.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.initRunMetrics()
	r.initRoutingMetrics()
	r.initFormulaMetrics()
	r.initSystemMetrics()
	return r
}

// Gatherer exposes the collected metrics.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.registry }
