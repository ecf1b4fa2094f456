package router

import (
	"github.com/dd0wney/cluso-siteroute/pkg/formula"
	"github.com/dd0wney/cluso-siteroute/pkg/sitegraph"
)

type visit int

const (
	descend   visit = iota // continue the search below the node
	backtrack              // do not expand the node
	stop                   // abandon the whole search
)

// state is the path under construction.
type state struct {
	path     []sitegraph.EdgeID
	requires []formula.Literal
	implies  []formula.Literal
}

func (s *state) route(src, dst sitegraph.NodeID) Route {
	edges := make([]sitegraph.EdgeID, len(s.path))
	copy(edges, s.path)
	return Route{
		Source:   src,
		Sink:     dst,
		Edges:    edges,
		Requires: formula.NewClause(s.requires...),
		Implies:  formula.NewClause(s.implies...),
	}
}

// frame is one level of the explicit DFS stack.
type frame struct {
	node       sitegraph.NodeID
	next       int  // position of the next out-edge to try
	pushedReq  bool // entering edge added a requires literal
	pushedImp  bool // entering edge added an implies literal
	enteredVia bool // false only for the source frame
}

// admit reports whether lit agrees with every literal the route already
// carries, required or implied, and whether it is new to set.
func (s *state) admit(set []formula.Literal, lit *formula.Literal) (ok, push bool) {
	if lit == nil {
		return true, false
	}
	for _, carried := range [][]formula.Literal{s.requires, s.implies} {
		for _, l := range carried {
			if l.ConflictsWith(*lit) {
				return false, false
			}
		}
	}
	for _, l := range set {
		if l == *lit {
			return true, false
		}
	}
	return true, true
}

// walk runs a depth-first search from src over node-simple paths and calls fn
// for every node reached. It returns the number of edges taken.
//
// Algorithm: an explicit stack of frames replaces recursion. Each frame
// remembers which out-edge to try next and which literals its entering edge
// pushed, so backtracking restores the used-node set, the path and both
// literal sets exactly. An edge is taken only when its target is unused and
// its literals agree with the ones already collected: a route holds each
// state variable at one value, whether the value is required or implied.
func (r *Router) walk(src sitegraph.NodeID, fn func(sitegraph.NodeID, *state) visit) int {
	for i := range r.used {
		r.used[i] = false
	}

	var s state
	steps := 0
	r.used[src] = true
	stack := []frame{{node: src}}

	pop := func(f frame) {
		r.used[f.node] = false
		if f.pushedReq {
			s.requires = s.requires[:len(s.requires)-1]
		}
		if f.pushedImp {
			s.implies = s.implies[:len(s.implies)-1]
		}
		if f.enteredVia {
			s.path = s.path[:len(s.path)-1]
		}
	}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		out := r.g.Out(top.node)
		if top.next >= len(out) {
			pop(*top)
			stack = stack[:len(stack)-1]
			continue
		}

		id := out[top.next]
		top.next++
		e := r.g.Edge(id)
		if r.used[e.To] {
			continue
		}
		okReq, pushReq := s.admit(s.requires, e.Requires)
		okImp, pushImp := s.admit(s.implies, e.Implies)
		if !okReq || !okImp || (e.Requires != nil && e.Implies != nil && e.Requires.ConflictsWith(*e.Implies)) {
			continue
		}

		steps++
		f := frame{node: e.To, pushedReq: pushReq, pushedImp: pushImp, enteredVia: true}
		r.used[e.To] = true
		s.path = append(s.path, id)
		if pushReq {
			s.requires = append(s.requires, *e.Requires)
		}
		if pushImp {
			s.implies = append(s.implies, *e.Implies)
		}

		switch fn(e.To, &s) {
		case descend:
			stack = append(stack, f)
		case backtrack:
			pop(f)
		case stop:
			pop(f)
			for i := len(stack) - 1; i >= 0; i-- {
				pop(stack[i])
			}
			return steps
		}
	}
	return steps
}
