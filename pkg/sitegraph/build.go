package sitegraph

import (
	"fmt"

	"github.com/dd0wney/cluso-siteroute/pkg/device"
	"github.com/dd0wney/cluso-siteroute/pkg/formula"
)

// Build constructs the routing graph of a site type.
//
// Every BEL pin and every site wire becomes one node. Wire attachments give
// regular edges (driver pin -> wire, wire -> sink pin; inout pins get both)
// and every site pip gives one pseudo edge from its input pin to its output
// pin.
//
// State variables, in id order:
//   - states declared by the site type
//   - states named by pip annotations but not declared (open domain)
//   - one mux variable "<BEL>.<PIN>" per routing BEL output that some
//     unannotated pip drives; its value is the pip's ordinal among the pips
//     driving that output
//   - one driver variable "<WIRE>" per wire with several drivers; its value
//     is the driver's ordinal on the wire
func Build(st *device.SiteType) (*Graph, error) {
	b := &builder{
		st: st,
		g: &Graph{
			siteType: st.Name,
			stateIdx: make(map[string]formula.Var),
		},
	}
	if err := b.build(); err != nil {
		return nil, err
	}
	return b.g, nil
}

type builder struct {
	st      *device.SiteType
	g       *Graph
	pinBase []NodeID // first node of each BEL
}

func (b *builder) fail(part string, err error) error {
	return &BuildError{SiteType: b.st.Name, Part: part, Cause: err}
}

func (b *builder) build() error {
	b.addPins()
	if err := b.addWires(); err != nil {
		return err
	}
	if err := b.addStates(); err != nil {
		return err
	}
	if err := b.attachWires(); err != nil {
		return err
	}
	return b.addPIPs()
}

func (b *builder) addNode(n Node) NodeID {
	id := NodeID(len(b.g.nodes))
	b.g.nodes = append(b.g.nodes, n)
	b.g.out = append(b.g.out, nil)
	b.g.in = append(b.g.in, nil)
	return id
}

func (b *builder) addEdge(e Edge) {
	id := EdgeID(len(b.g.edges))
	b.g.edges = append(b.g.edges, e)
	b.g.out[e.From] = append(b.g.out[e.From], id)
	b.g.in[e.To] = append(b.g.in[e.To], id)
}

func (b *builder) addPins() {
	b.pinBase = make([]NodeID, len(b.st.BELs))
	for i, bel := range b.st.BELs {
		b.pinBase[i] = NodeID(len(b.g.nodes))
		for j, pin := range bel.Pins {
			b.addNode(Node{
				Kind:     PinNode,
				Name:     bel.Name + "." + pin.Name,
				BEL:      i,
				Pin:      j,
				Dir:      pin.Dir,
				Category: bel.Category,
			})
		}
	}
	b.g.pins = len(b.g.nodes)
}

func (b *builder) addWires() error {
	seen := make(map[string]bool, len(b.st.Wires))
	for _, w := range b.st.Wires {
		if seen[w.Name] {
			return b.fail("wire "+w.Name, ErrDuplicateName)
		}
		seen[w.Name] = true
		b.addNode(Node{Kind: WireNode, Name: w.Name, BEL: -1, Pin: -1})
	}
	return nil
}

func (b *builder) pinNode(ref device.PinRef) (NodeID, error) {
	bel, pin, err := b.st.ResolvePin(ref)
	if err != nil {
		return -1, err
	}
	return b.pinBase[bel] + NodeID(pin), nil
}

func (b *builder) addState(name string, domain int) (formula.Var, error) {
	if _, ok := b.g.stateIdx[name]; ok {
		return 0, fmt.Errorf("%w: state %s", ErrDuplicateName, name)
	}
	v := formula.Var(len(b.g.states))
	b.g.states = append(b.g.states, StateVar{ID: v, Name: name, Domain: domain})
	b.g.stateIdx[name] = v
	return v, nil
}

// addStates creates every state variable before any edge refers to one, so
// variable ids do not depend on edge order.
func (b *builder) addStates() error {
	for _, s := range b.st.States {
		if _, err := b.addState(s.Name, s.Domain); err != nil {
			return b.fail("state "+s.Name, err)
		}
	}

	for _, p := range b.st.PIPs {
		for _, ref := range []*device.StateRef{p.Requires, p.Implies} {
			if ref == nil {
				continue
			}
			if _, ok := b.g.stateIdx[ref.State]; !ok {
				if _, err := b.addState(ref.State, 0); err != nil {
					return b.fail("pip "+p.String(), err)
				}
			}
		}
	}

	muxPips := make(map[string]int)
	var muxOrder []string
	needsMux := make(map[string]bool)
	for _, p := range b.st.PIPs {
		out := p.BEL + "." + p.Out
		if muxPips[out] == 0 {
			muxOrder = append(muxOrder, out)
		}
		muxPips[out]++
		if p.Requires == nil {
			needsMux[out] = true
		}
	}
	for _, out := range muxOrder {
		if !needsMux[out] {
			continue
		}
		if _, err := b.addState(out, muxPips[out]); err != nil {
			return b.fail("pip output "+out, err)
		}
	}

	for _, w := range b.st.Wires {
		if drivers := b.driverCount(w); drivers > 1 {
			if _, err := b.addState(w.Name, drivers); err != nil {
				return b.fail("wire "+w.Name, err)
			}
		}
	}
	return nil
}

func (b *builder) driverCount(w device.SiteWire) int {
	n := 0
	for _, ref := range w.Pins {
		bel, pin, err := b.st.ResolvePin(ref)
		if err == nil && b.st.BELs[bel].Pins[pin].Dir.Drives() {
			n++
		}
	}
	return n
}

func (b *builder) attachWires() error {
	attached := make(map[NodeID]string)
	for i, w := range b.st.Wires {
		wire := NodeID(b.g.pins + i)

		var driverVar *formula.Var
		if v, ok := b.g.stateIdx[w.Name]; ok && b.driverCount(w) > 1 {
			driverVar = &v
		}

		driver := 0
		for _, ref := range w.Pins {
			pin, err := b.pinNode(ref)
			if err != nil {
				return b.fail("wire "+w.Name, err)
			}
			if other, ok := attached[pin]; ok {
				return b.fail("wire "+w.Name, fmt.Errorf("%w: %s is already attached to wire %s",
					device.ErrInvalidAttachment, ref, other))
			}
			attached[pin] = w.Name

			dir := b.g.nodes[pin].Dir
			if dir.Drives() {
				e := Edge{From: pin, To: wire, Kind: Regular}
				if driverVar != nil {
					e.Implies = &formula.Literal{Var: *driverVar, Value: driver}
				}
				b.addEdge(e)
				driver++
			}
			if dir.Sinks() {
				b.addEdge(Edge{From: wire, To: pin, Kind: Regular})
			}
		}
	}
	return nil
}

func (b *builder) addPIPs() error {
	ordinal := make(map[string]int)
	for _, p := range b.st.PIPs {
		if err := b.st.CheckPIP(p); err != nil {
			return b.fail("pip "+p.String(), err)
		}
		in, _ := b.pinNode(device.PinRef{BEL: p.BEL, Pin: p.In})
		out, _ := b.pinNode(device.PinRef{BEL: p.BEL, Pin: p.Out})

		key := p.BEL + "." + p.Out
		value := ordinal[key]
		ordinal[key]++

		e := Edge{From: in, To: out, Kind: Pseudo}
		if p.Requires != nil {
			e.Requires = b.literal(p.Requires)
		} else {
			e.Requires = &formula.Literal{Var: b.g.stateIdx[key], Value: value}
		}
		if p.Implies != nil {
			e.Implies = b.literal(p.Implies)
		}
		b.addEdge(e)
	}
	return nil
}

func (b *builder) literal(ref *device.StateRef) *formula.Literal {
	return &formula.Literal{Var: b.g.stateIdx[ref.State], Value: ref.Value}
}
