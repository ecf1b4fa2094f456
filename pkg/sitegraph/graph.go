// Package sitegraph turns the wires, BEL pins and site pips of a site type
// into a directed graph over dense integer node ids.
package sitegraph

import (
	"fmt"

	"github.com/dd0wney/cluso-siteroute/pkg/device"
	"github.com/dd0wney/cluso-siteroute/pkg/formula"
)

// NodeID indexes the node arena of a Graph. BEL pins come first, numbered
// BEL by BEL and pin by pin, so a pin's NodeID is its site-local pin index.
type NodeID int

// EdgeID indexes the edge arena of a Graph.
type EdgeID int

// NodeKind distinguishes BEL pins from site wires.
type NodeKind uint8

const (
	PinNode NodeKind = iota
	WireNode
)

func (k NodeKind) String() string {
	if k == PinNode {
		return "pin"
	}
	return "wire"
}

// Node is a BEL pin or a site wire.
type Node struct {
	Kind     NodeKind
	Name     string // "BEL.PIN" for pins, the wire name for wires
	BEL      int    // BEL position in the site type, -1 for wires
	Pin      int    // pin position in the BEL, -1 for wires
	Dir      device.PinDir
	Category device.Category
}

// EdgeKind distinguishes physical attachments from site pips.
type EdgeKind uint8

const (
	// Regular edges join a driving pin to its wire or a wire to a sink pin.
	Regular EdgeKind = iota
	// Pseudo edges cross a routing BEL through a site pip.
	Pseudo
)

func (k EdgeKind) String() string {
	if k == Regular {
		return "regular"
	}
	return "pseudo"
}

// Edge is a directed connection with optional state obligations. Requires
// must hold for the edge to be usable; Implies becomes true when it is used.
type Edge struct {
	From     NodeID
	To       NodeID
	Kind     EdgeKind
	Requires *formula.Literal
	Implies  *formula.Literal
}

// StateVar is a state variable of the site. Domain is the number of values,
// 0 when unknown.
type StateVar struct {
	ID     formula.Var
	Name   string
	Domain int
}

// Graph is the immutable routing graph of one site type.
type Graph struct {
	siteType string
	nodes    []Node
	edges    []Edge
	out      [][]EdgeID
	in       [][]EdgeID
	pins     int
	states   []StateVar
	stateIdx map[string]formula.Var
}

// SiteType returns the name of the site type the graph was built from.
func (g *Graph) SiteType() string { return g.siteType }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// PinCount returns the number of BEL pin nodes. Pin nodes are 0..PinCount-1.
func (g *Graph) PinCount() int { return g.pins }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Node returns the node with the given id.
func (g *Graph) Node(id NodeID) Node { return g.nodes[id] }

// Edge returns the edge with the given id.
func (g *Graph) Edge(id EdgeID) Edge { return g.edges[id] }

// Out returns the ids of the edges leaving id in creation order.
func (g *Graph) Out(id NodeID) []EdgeID { return g.out[id] }

// In returns the ids of the edges entering id in creation order.
func (g *Graph) In(id NodeID) []EdgeID { return g.in[id] }

// IsPin reports whether id is a BEL pin node.
func (g *Graph) IsPin(id NodeID) bool { return id >= 0 && int(id) < g.pins }

// Valid reports whether id is a node of g.
func (g *Graph) Valid(id NodeID) bool { return id >= 0 && int(id) < len(g.nodes) }

// States returns the state variables ordered by id.
func (g *Graph) States() []StateVar { return g.states }

// State returns the variable with the given name.
func (g *Graph) State(name string) (StateVar, bool) {
	v, ok := g.stateIdx[name]
	if !ok {
		return StateVar{}, false
	}
	return g.states[v], true
}

// Domains returns the domain sizes of all state variables.
func (g *Graph) Domains() formula.Domains {
	d := make(formula.Domains, len(g.states))
	for _, s := range g.states {
		d[s.ID] = s.Domain
	}
	return d
}

// FindPin returns the node of BEL pin "bel.pin".
func (g *Graph) FindPin(bel, pin string) (NodeID, bool) {
	name := bel + "." + pin
	for i := 0; i < g.pins; i++ {
		if g.nodes[i].Name == name {
			return NodeID(i), true
		}
	}
	return -1, false
}

// LiteralString renders l with the state's name.
func (g *Graph) LiteralString(l formula.Literal) string {
	if int(l.Var) < len(g.states) {
		return fmt.Sprintf("%s=%d", g.states[l.Var].Name, l.Value)
	}
	return l.String()
}
