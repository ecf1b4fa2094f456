package sitegraph

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-siteroute/pkg/device"
	"github.com/dd0wney/cluso-siteroute/pkg/device/devicetest"
	"github.com/dd0wney/cluso-siteroute/pkg/formula"
)

func buildToy(t *testing.T, name string) *Graph {
	t.Helper()
	g, err := Build(devicetest.MustSiteType(devicetest.Toy(), name))
	require.NoError(t, err)
	return g
}

func TestBuildSlice(t *testing.T) {
	g := buildToy(t, "SLICE")

	assert.Equal(t, "SLICE", g.SiteType())
	assert.Equal(t, 11, g.PinCount())
	assert.Equal(t, 15, g.NodeCount())
	assert.Equal(t, 14, g.EdgeCount())

	for i := 0; i < g.PinCount(); i++ {
		assert.Equal(t, PinNode, g.Node(NodeID(i)).Kind)
	}
	assert.Equal(t, "OUTMUX.O", g.Node(9).Name)
	assert.Equal(t, WireNode, g.Node(11).Kind)
	assert.Equal(t, "W_IN", g.Node(11).Name)

	id, ok := g.FindPin("CARRY", "CO")
	require.True(t, ok)
	assert.Equal(t, NodeID(5), id)

	assert.Equal(t, []StateVar{
		{ID: 0, Name: "OUTMUX.O", Domain: 3},
		{ID: 1, Name: "W_Q", Domain: 2},
	}, g.States())
	assert.Equal(t, formula.Domains{0: 3, 1: 2}, g.Domains())

	pseudo := 0
	for e := EdgeID(0); int(e) < g.EdgeCount(); e++ {
		edge := g.Edge(e)
		if edge.Kind != Pseudo {
			continue
		}
		require.NotNil(t, edge.Requires)
		assert.Equal(t, formula.Lit(0, pseudo), *edge.Requires)
		assert.Equal(t, NodeID(9), edge.To)
		pseudo++
	}
	assert.Equal(t, 3, pseudo)

	// FF.Q and CARRY.CO both drive W_Q.
	ffq := g.Edge(g.Out(4)[0])
	require.NotNil(t, ffq.Implies)
	assert.Equal(t, formula.Lit(1, 0), *ffq.Implies)
	co := g.Edge(g.Out(5)[0])
	require.NotNil(t, co.Implies)
	assert.Equal(t, formula.Lit(1, 1), *co.Implies)

	// Single-driver wires carry no obligation.
	lut := g.Edge(g.Out(2)[0])
	assert.Nil(t, lut.Implies)
	assert.Nil(t, lut.Requires)

	assert.Empty(t, g.Out(1), "logic input pins have no out edges")
	assert.Empty(t, g.In(0), "site input port has no in edges")
}

func TestBuildExplicitStates(t *testing.T) {
	g := buildToy(t, "IOB")

	assert.Equal(t, []StateVar{
		{ID: 0, Name: "X", Domain: 0},
		{ID: 1, Name: "Y", Domain: 2},
	}, g.States())

	var reqs []formula.Literal
	for e := EdgeID(0); int(e) < g.EdgeCount(); e++ {
		if edge := g.Edge(e); edge.Kind == Pseudo {
			reqs = append(reqs, *edge.Requires)
		}
	}
	assert.Equal(t, []formula.Literal{formula.Lit(0, 1), formula.Lit(0, 2), formula.Lit(1, 0)}, reqs)

	x, ok := g.State("X")
	require.True(t, ok)
	assert.Equal(t, formula.Var(0), x.ID)
	assert.Equal(t, "Y=0", g.LiteralString(formula.Lit(1, 0)))
}

func TestBuildErrors(t *testing.T) {
	base := func() *device.SiteType {
		return &device.SiteType{
			Name: "T",
			BELs: []device.BEL{
				{Name: "A", Pins: []device.BELPin{{Name: "O", Dir: device.Output}}},
				{Name: "M", Category: device.Routing, Pins: []device.BELPin{
					{Name: "I", Dir: device.Input}, {Name: "O", Dir: device.Output},
				}},
				{Name: "P", Category: device.SitePort, Pins: []device.BELPin{
					{Name: "I", Dir: device.Input}, {Name: "O", Dir: device.Output},
				}},
			},
			Wires: []device.SiteWire{{Name: "W", Pins: []device.PinRef{{BEL: "A", Pin: "O"}, {BEL: "M", Pin: "I"}}}},
			PIPs:  []device.SitePIP{{BEL: "M", In: "I", Out: "O"}},
		}
	}

	_, err := Build(base())
	require.NoError(t, err)

	tests := []struct {
		name    string
		mutate  func(st *device.SiteType)
		wantErr error
	}{
		{
			name:    "wire references an undeclared pin",
			mutate:  func(st *device.SiteType) { st.Wires[0].Pins = append(st.Wires[0].Pins, device.PinRef{BEL: "A", Pin: "X"}) },
			wantErr: ErrUndeclaredReference,
		},
		{
			name:    "pip references an undeclared BEL",
			mutate:  func(st *device.SiteType) { st.PIPs[0].BEL = "Q" },
			wantErr: ErrUndeclaredReference,
		},
		{
			name:    "pip through a site port",
			mutate:  func(st *device.SiteType) { st.PIPs = append(st.PIPs, device.SitePIP{BEL: "P", In: "I", Out: "O"}) },
			wantErr: ErrInvalidPip,
		},
		{
			name:    "duplicate wire",
			mutate:  func(st *device.SiteType) { st.Wires = append(st.Wires, device.SiteWire{Name: "W"}) },
			wantErr: ErrDuplicateName,
		},
		{
			name: "driver variable collides with a declared state",
			mutate: func(st *device.SiteType) {
				st.BELs = append(st.BELs, device.BEL{Name: "B", Pins: []device.BELPin{{Name: "O", Dir: device.Output}}})
				st.Wires[0].Pins = append(st.Wires[0].Pins, device.PinRef{BEL: "B", Pin: "O"})
				st.States = []device.StateDecl{{Name: "W"}}
			},
			wantErr: ErrDuplicateName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := base()
			tt.mutate(st)
			_, err := Build(st)
			require.Error(t, err)
			var be *BuildError
			require.ErrorAs(t, err, &be)
			assert.Equal(t, "T", be.SiteType)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDot(t *testing.T) {
	g := buildToy(t, "SLICE")

	var buf bytes.Buffer
	require.NoError(t, g.Dot(&buf))
	out := buf.String()
	assert.Contains(t, out, "digraph SLICE {")
	assert.Contains(t, out, `n9 [label="9: OUTMUX.O", shape=box, style=filled, fillcolor="lightblue"];`)
	assert.Contains(t, out, `n11 [label="W_IN", shape=plaintext];`)
	assert.Contains(t, out, `n7 -> n9 [style=dashed, label="req OUTMUX.O=1"];`)
	assert.Contains(t, out, `n4 -> n13 [label="imp W_Q=0"];`)

	buf.Reset()
	require.NoError(t, g.DotCluster(&buf, "s1_", "SLICE[1]"))
	assert.Contains(t, buf.String(), "subgraph cluster_s1_ {")
	assert.Contains(t, buf.String(), "s1_n0 -> s1_n11;")
}
