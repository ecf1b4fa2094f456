package router

import (
	"fmt"
	"strings"

	"github.com/dd0wney/cluso-siteroute/pkg/formula"
	"github.com/dd0wney/cluso-siteroute/pkg/sitegraph"
)

// Describe renders a route as its node sequence followed by its obligations,
// e.g. "IN.P -> W_IN -> OUTMUX.I1 => OUTMUX.O [requires OUTMUX.O=1]". Pseudo
// edges are drawn as "=>".
func Describe(g *sitegraph.Graph, rt Route) string {
	var b strings.Builder
	b.WriteString(g.Node(rt.Source).Name)
	for _, id := range rt.Edges {
		e := g.Edge(id)
		if e.Kind == sitegraph.Pseudo {
			b.WriteString(" => ")
		} else {
			b.WriteString(" -> ")
		}
		b.WriteString(g.Node(e.To).Name)
	}
	if len(rt.Requires) > 0 {
		fmt.Fprintf(&b, " [requires %s]", clauseString(g, rt.Requires))
	}
	if len(rt.Implies) > 0 {
		fmt.Fprintf(&b, " [implies %s]", clauseString(g, rt.Implies))
	}
	return b.String()
}

func clauseString(g *sitegraph.Graph, c formula.Clause) string {
	return c.Format(g.LiteralString)
}

// Nodes returns the node sequence of the route, source first.
func (rt Route) Nodes(g *sitegraph.Graph) []sitegraph.NodeID {
	nodes := make([]sitegraph.NodeID, 0, len(rt.Edges)+1)
	nodes = append(nodes, rt.Source)
	for _, id := range rt.Edges {
		nodes = append(nodes, g.Edge(id).To)
	}
	return nodes
}
