package constraints

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-siteroute/pkg/device/devicetest"
	"github.com/dd0wney/cluso-siteroute/pkg/formula"
	"github.com/dd0wney/cluso-siteroute/pkg/router"
	"github.com/dd0wney/cluso-siteroute/pkg/sitegraph"
)

const (
	x formula.Var = iota
	y
)

func route(req, imp formula.Clause) router.Route {
	return router.Route{Requires: req, Implies: imp}
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name             string
		routes           []router.Route
		requires, implies formula.Formula
	}{
		{
			name:     "unconditional route",
			routes:   []router.Route{route(nil, nil)},
			requires: formula.True(),
			implies:   formula.True(),
		},
		{
			name: "alternative routes",
			routes: []router.Route{
				route(formula.NewClause(formula.Lit(x, 1)), nil),
				route(formula.NewClause(formula.Lit(x, 2)), nil),
			},
			requires: formula.Formula{Clauses: []formula.Clause{
				formula.NewClause(formula.Lit(x, 1)),
				formula.NewClause(formula.Lit(x, 2)),
			}},
			implies: formula.True(),
		},
		{
			name: "single conditional route",
			routes: []router.Route{
				route(formula.NewClause(formula.Lit(x, 1), formula.Lit(y, 0)), formula.NewClause(formula.Lit(y, 1))),
			},
			requires: formula.Formula{Clauses: []formula.Clause{formula.NewClause(formula.Lit(x, 1), formula.Lit(y, 0))}},
			implies:   formula.Formula{Clauses: []formula.Clause{formula.NewClause(formula.Lit(y, 1))}},
		},
		{
			name: "unconditional route short-circuits",
			routes: []router.Route{
				route(formula.NewClause(formula.Lit(x, 1)), nil),
				route(nil, nil),
			},
			requires: formula.True(),
			implies:   formula.True(),
		},
		{
			name: "clauses ordered by length",
			routes: []router.Route{
				route(formula.NewClause(formula.Lit(x, 1), formula.Lit(y, 1)), formula.NewClause(formula.Lit(y, 1))),
				route(formula.NewClause(formula.Lit(x, 2)), formula.NewClause(formula.Lit(y, 2))),
			},
			requires: formula.Formula{Clauses: []formula.Clause{
				formula.NewClause(formula.Lit(x, 2)),
				formula.NewClause(formula.Lit(x, 1), formula.Lit(y, 1)),
			}},
			implies: formula.Formula{Clauses: []formula.Clause{
				formula.NewClause(formula.Lit(y, 1)),
				formula.NewClause(formula.Lit(y, 2)),
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requires, implies := Build(tt.routes)
			assert.Equal(t, tt.requires, requires)
			assert.Equal(t, tt.implies, implies)
		})
	}
}

func TestBuilderConnection(t *testing.T) {
	b := NewBuilder(formula.Domains{x: 2}, Options{Verify: true})

	_, ok, err := b.Connection(0, 1, nil)
	require.NoError(t, err)
	assert.False(t, ok, "no route, no connection")

	conn, ok, err := b.Connection(0, 1, []router.Route{
		route(formula.NewClause(formula.Lit(x, 0), formula.Lit(y, 1)), nil),
		route(formula.NewClause(formula.Lit(x, 1), formula.Lit(y, 1)), nil),
	})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, conn.Routes)
	assert.Equal(t, formula.Formula{Clauses: []formula.Clause{formula.NewClause(formula.Lit(y, 1))}}, conn.Requires)
	assert.True(t, conn.Implies.IsTrue())

	stats := b.Stats()
	assert.Equal(t, 1, stats.Connections)
	assert.Equal(t, 3, stats.RawClauses, "two requires clauses and one true implies clause")
	assert.Equal(t, 4, stats.RawLiterals)
	assert.Equal(t, 2, stats.Clauses)
	assert.Equal(t, 1, stats.Literals)
}

func TestBuilderSkipOptimization(t *testing.T) {
	b := NewBuilder(formula.Domains{x: 2}, Options{SkipOptimization: true})
	conn, ok, err := b.Connection(0, 1, []router.Route{
		route(formula.NewClause(formula.Lit(x, 0)), nil),
		route(formula.NewClause(formula.Lit(x, 1)), nil),
	})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, conn.Requires.Clauses, 2)
}

func TestBuilderConnectionsOverToyGraph(t *testing.T) {
	g, err := sitegraph.Build(devicetest.MustSiteType(devicetest.Toy(), "IOB"))
	require.NoError(t, err)
	r := router.New(g, router.Options{})
	b := NewBuilder(g.Domains(), Options{Verify: true})

	sinks, _, err := r.EnumerateFrom(0)
	require.NoError(t, err)
	conns, err := b.Connections(0, sinks)
	require.NoError(t, err)

	var dsts []sitegraph.NodeID
	for _, c := range conns {
		dsts = append(dsts, c.Sink)
	}
	assert.Equal(t, []sitegraph.NodeID{1, 2, 3, 4, 5, 6}, dsts)

	// X has an open domain, so X=1 | X=2 cannot be simplified.
	toIMUX := conns[2]
	assert.Equal(t, "(v0=1) | (v0=2)", toIMUX.Requires.String())
	toILOGIC := conns[5]
	assert.Equal(t, "(v0=1 & v1=0) | (v0=2 & v1=0)", toILOGIC.Requires.String())
	assert.True(t, toILOGIC.Implies.IsTrue())
}
