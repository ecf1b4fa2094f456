// Package constraints turns the routes of a pin pair into the DNF formulas
// consumers check: "requires" (at least one route's preconditions hold) and
// "implies" (the state the chosen route forces).
package constraints

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dd0wney/cluso-siteroute/pkg/formula"
	"github.com/dd0wney/cluso-siteroute/pkg/router"
	"github.com/dd0wney/cluso-siteroute/pkg/sitegraph"
)

// ErrFormulaMismatch is returned when an optimized formula is not
// equivalent to the formula it was derived from.
var ErrFormulaMismatch = errors.New("optimized formula is not equivalent")

// Connection is a routable pin pair and its formulas.
type Connection struct {
	Source   sitegraph.NodeID
	Sink     sitegraph.NodeID
	Routes   int
	Requires formula.Formula
	Implies  formula.Formula
}

// Build derives the requires and implies formulas of a set of routes: one
// clause per route, holding that route's literals. A route without literals
// makes the formula true and no other clause matters.
func Build(routes []router.Route) (requires, implies formula.Formula) {
	requires = collect(routes, func(rt router.Route) formula.Clause { return rt.Requires })
	implies = collect(routes, func(rt router.Route) formula.Clause { return rt.Implies })
	return requires, implies
}

func collect(routes []router.Route, clause func(router.Route) formula.Clause) formula.Formula {
	f := formula.Formula{Clauses: make([]formula.Clause, 0, len(routes))}
	for _, rt := range routes {
		c := clause(rt)
		if c.IsTrue() {
			return formula.True()
		}
		f.Clauses = append(f.Clauses, c)
	}
	f.SortByLength()
	return f
}

// Options control formula post-processing.
type Options struct {
	// SkipOptimization keeps the raw one-clause-per-route formulas.
	SkipOptimization bool
	// Verify checks every optimized formula against its raw form.
	Verify bool
}

// Stats counts formula sizes before and after optimization.
type Stats struct {
	Connections int
	RawClauses  int
	RawLiterals int
	Clauses     int
	Literals    int
}

// Builder builds connections for one site graph.
type Builder struct {
	domains   formula.Domains
	optimizer *formula.Optimizer
	opts      Options
	stats     Stats
}

// NewBuilder creates a builder over the given variable domains.
func NewBuilder(domains formula.Domains, opts Options) *Builder {
	return &Builder{
		domains:   domains,
		optimizer: formula.NewOptimizer(domains),
		opts:      opts,
	}
}

// Stats returns the counts accumulated so far.
func (b *Builder) Stats() Stats { return b.stats }

// Connection builds the connection of one pin pair. ok is false when routes
// is empty: unroutable pairs have no connection.
func (b *Builder) Connection(src, dst sitegraph.NodeID, routes []router.Route) (conn Connection, ok bool, err error) {
	if len(routes) == 0 {
		return Connection{}, false, nil
	}
	requires, implies := Build(routes)
	conn = Connection{Source: src, Sink: dst, Routes: len(routes)}

	if conn.Requires, err = b.finish(requires); err != nil {
		return Connection{}, false, fmt.Errorf("requires %d->%d: %w", src, dst, err)
	}
	if conn.Implies, err = b.finish(implies); err != nil {
		return Connection{}, false, fmt.Errorf("implies %d->%d: %w", src, dst, err)
	}
	b.stats.Connections++
	return conn, true, nil
}

// Connections builds the connections from src to every sink in sinks,
// ordered by sink.
func (b *Builder) Connections(src sitegraph.NodeID, sinks map[sitegraph.NodeID][]router.Route) ([]Connection, error) {
	keys := make([]sitegraph.NodeID, 0, len(sinks))
	for dst := range sinks {
		keys = append(keys, dst)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	conns := make([]Connection, 0, len(keys))
	for _, dst := range keys {
		conn, ok, err := b.Connection(src, dst, sinks[dst])
		if err != nil {
			return nil, err
		}
		if ok {
			conns = append(conns, conn)
		}
	}
	return conns, nil
}

func (b *Builder) finish(raw formula.Formula) (formula.Formula, error) {
	rc, rl := raw.Size()
	b.stats.RawClauses += rc
	b.stats.RawLiterals += rl

	out := raw
	if !b.opts.SkipOptimization {
		out = b.optimizer.Optimize(raw)
		if b.opts.Verify && !formula.Equivalent(raw, out, b.domains) {
			return formula.Formula{}, fmt.Errorf("%w: %v became %v", ErrFormulaMismatch, raw, out)
		}
	}

	c, l := out.Size()
	b.stats.Clauses += c
	b.stats.Literals += l
	return out, nil
}
