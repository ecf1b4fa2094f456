package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initRoutingMetrics() {
	r.SiteGraphNodes = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "siteroute_site_graph_nodes",
			Help: "Nodes in the routing graph of a site type",
		},
		[]string{"site_type"},
	)

	r.SiteGraphEdges = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "siteroute_site_graph_edges",
			Help: "Edges in the routing graph of a site type",
		},
		[]string{"site_type"},
	)

	r.ConnectionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "siteroute_connections_total",
			Help: "Routable pin pairs found",
		},
		[]string{"tile_type"},
	)

	r.RoutesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "siteroute_routes_total",
			Help: "Routes enumerated",
		},
		[]string{"tile_type"},
	)

	r.RouterSteps = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "siteroute_router_steps_total",
			Help: "Edges taken by the route enumerator",
		},
		[]string{"tile_type"},
	)

	r.TruncatedPairs = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "siteroute_truncated_pairs_total",
			Help: "Pin pairs whose routes hit the per-pair limit",
		},
		[]string{"tile_type"},
	)

	r.RoutesPerPair = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "siteroute_routes_per_pair",
			Help:    "Number of alternative routes per routable pin pair",
			Buckets: []float64{1, 2, 4, 8, 16, 64, 256, 1024},
		},
		[]string{"tile_type"},
	)
}
