// Package router enumerates every simple route between BEL pins of a site
// graph together with the state obligations each route carries.
package router

import (
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-siteroute/pkg/formula"
	"github.com/dd0wney/cluso-siteroute/pkg/sitegraph"
)

var (
	// ErrNotPin is returned when a route endpoint is not a BEL pin node.
	ErrNotPin = errors.New("node is not a BEL pin")
)

// Options tune the enumeration.
type Options struct {
	// MaxRoutesPerPair caps the routes kept per pin pair and bounds the
	// search accordingly. 0 means unlimited.
	MaxRoutesPerPair int
}

// Route is one way of connecting Source to Sink. Edges is the traversed edge
// sequence; no node appears twice on it.
type Route struct {
	Source   sitegraph.NodeID
	Sink     sitegraph.NodeID
	Edges    []sitegraph.EdgeID
	Requires formula.Clause
	Implies  formula.Clause
}

// Stats summarizes one traversal.
type Stats struct {
	Steps     int // edges taken
	Routes    int // routes recorded
	Truncated int // pin pairs that reached MaxRoutesPerPair
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Steps += o.Steps
	s.Routes += o.Routes
	s.Truncated += o.Truncated
}

// Router enumerates routes over one immutable graph. It is not safe for
// concurrent use; create one per goroutine.
type Router struct {
	g    *sitegraph.Graph
	opts Options
	used []bool
}

// New creates a router for g.
func New(g *sitegraph.Graph, opts Options) *Router {
	return &Router{g: g, opts: opts, used: make([]bool, g.NodeCount())}
}

// Graph returns the graph being routed.
func (r *Router) Graph() *sitegraph.Graph { return r.g }

func (r *Router) checkPin(id sitegraph.NodeID) error {
	if !r.g.IsPin(id) {
		return fmt.Errorf("%w: %d", ErrNotPin, id)
	}
	return nil
}

// Enumerate returns every route from src to dst, in discovery order. An
// empty result means the pair is not routable.
func (r *Router) Enumerate(src, dst sitegraph.NodeID) ([]Route, Stats, error) {
	if err := r.checkPin(src); err != nil {
		return nil, Stats{}, err
	}
	if err := r.checkPin(dst); err != nil {
		return nil, Stats{}, err
	}
	if src == dst {
		return nil, Stats{}, nil
	}

	var routes []Route
	var stats Stats
	stats.Steps = r.walk(src, func(n sitegraph.NodeID, s *state) visit {
		if n != dst {
			return descend
		}
		routes = append(routes, s.route(src, dst))
		if r.opts.MaxRoutesPerPair > 0 && len(routes) >= r.opts.MaxRoutesPerPair {
			stats.Truncated = 1
			return stop
		}
		return backtrack
	})
	stats.Routes = len(routes)
	return routes, stats, nil
}

// EnumerateFrom returns the routes from src to every reachable BEL pin in
// one traversal, keyed by sink. With MaxRoutesPerPair set, a sink stops
// collecting routes at the cap, and the search ends once every pin reachable
// from src is at the cap.
func (r *Router) EnumerateFrom(src sitegraph.NodeID) (map[sitegraph.NodeID][]Route, Stats, error) {
	if err := r.checkPin(src); err != nil {
		return nil, Stats{}, err
	}

	max := r.opts.MaxRoutesPerPair
	remaining := 0
	if max > 0 {
		remaining = r.reachablePins(src)
	}

	routes := make(map[sitegraph.NodeID][]Route)
	var stats Stats
	stats.Steps = r.walk(src, func(n sitegraph.NodeID, s *state) visit {
		if !r.g.IsPin(n) {
			return descend
		}
		if max > 0 && len(routes[n]) >= max {
			return descend
		}
		routes[n] = append(routes[n], s.route(src, n))
		stats.Routes++
		if max > 0 && len(routes[n]) == max {
			stats.Truncated++
			if remaining--; remaining == 0 {
				return stop
			}
		}
		return descend
	})
	return routes, stats, nil
}

// reachablePins counts the pins other than src reachable from src when state
// obligations are ignored. Every pin that can get a route is among them.
func (r *Router) reachablePins(src sitegraph.NodeID) int {
	seen := make([]bool, r.g.NodeCount())
	seen[src] = true
	queue := []sitegraph.NodeID{src}
	pins := 0
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, id := range r.g.Out(n) {
			to := r.g.Edge(id).To
			if seen[to] {
				continue
			}
			seen[to] = true
			if r.g.IsPin(to) {
				pins++
			}
			queue = append(queue, to)
		}
	}
	return pins
}
