package formula

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
)

// ErrTooManyAssignments is returned by EquivalentExhaustive when the
// assignment space exceeds MaxExhaustiveAssignments.
var ErrTooManyAssignments = errors.New("too many assignments for exhaustive check")

// MaxExhaustiveAssignments bounds the enumeration in EquivalentExhaustive.
const MaxExhaustiveAssignments = 1 << 20

// valueSpace returns, per variable, the values an assignment can give it.
// Bounded variables range over their domain. Open variables range over every
// value mentioned by a or b plus one fresh value standing for all others.
func valueSpace(a, b Formula, domains Domains) (map[Var][]int, []Var) {
	mentioned := make(map[Var]map[int]struct{})
	for _, f := range []Formula{a, b} {
		for _, c := range f.Clauses {
			for _, l := range c {
				if mentioned[l.Var] == nil {
					mentioned[l.Var] = make(map[int]struct{})
				}
				mentioned[l.Var][l.Value] = struct{}{}
			}
		}
	}

	space := make(map[Var][]int, len(mentioned))
	vars := make([]Var, 0, len(mentioned))
	for v, vals := range mentioned {
		vars = append(vars, v)
		if n, ok := domains.Bounded(v); ok {
			dom := make([]int, n)
			for i := range dom {
				dom[i] = i
			}
			space[v] = dom
			continue
		}
		dom := make([]int, 0, len(vals)+1)
		fresh := 0
		for val := range vals {
			dom = append(dom, val)
			if val >= fresh {
				fresh = val + 1
			}
		}
		sort.Ints(dom)
		space[v] = append(dom, fresh)
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i] < vars[j] })
	return space, vars
}

// EquivalentExhaustive compares a and b on every assignment of their
// variables.
func EquivalentExhaustive(a, b Formula, domains Domains) (bool, error) {
	space, vars := valueSpace(a, b, domains)

	total := 1
	for _, v := range vars {
		total *= len(space[v])
		if total > MaxExhaustiveAssignments {
			return false, fmt.Errorf("%w: %d variables", ErrTooManyAssignments, len(vars))
		}
	}

	pos := make([]int, len(vars))
	asg := make(Assignment, len(vars))
	for {
		for i, v := range vars {
			asg[v] = space[v][pos[i]]
		}
		if a.Eval(asg) != b.Eval(asg) {
			return false, nil
		}

		i := 0
		for ; i < len(vars); i++ {
			pos[i]++
			if pos[i] < len(space[vars[i]]) {
				break
			}
			pos[i] = 0
		}
		if i == len(vars) {
			return true, nil
		}
	}
}

// Equivalent decides whether a and b agree on every assignment by asking a
// SAT solver for an assignment on which they differ.
//
// Encoding: one boolean per (variable, value) pair. Bounded variables take
// exactly one value; open variables take at most one, the empty choice
// standing for any unmentioned value. Each clause and each formula gets a
// Tseitin definition, and the query asserts fa xor fb.
func Equivalent(a, b Formula, domains Domains) bool {
	enc := newEncoder()
	for _, f := range []Formula{a, b} {
		for _, c := range f.Clauses {
			for _, l := range c {
				enc.literal(l)
			}
		}
	}

	space, vars := valueSpace(a, b, domains)
	for _, v := range vars {
		vals := space[v]
		if _, ok := domains.Bounded(v); ok {
			enc.exactlyOne(v, vals)
		} else {
			// drop the fresh value; "none of the mentioned" models it
			enc.atMostOne(v, vals[:len(vals)-1])
		}
	}

	fa := enc.formula(a)
	fb := enc.formula(b)
	enc.clause(fa, fb)
	enc.clause(fa.Not(), fb.Not())
	return enc.g.Solve() != 1
}

type encoder struct {
	g    *gini.Gini
	next z.Var
	lits map[Literal]z.Lit
}

func newEncoder() *encoder {
	return &encoder{g: gini.New(), next: 1, lits: make(map[Literal]z.Lit)}
}

func (e *encoder) fresh() z.Lit {
	m := e.next.Pos()
	e.next++
	return m
}

func (e *encoder) clause(ms ...z.Lit) {
	for _, m := range ms {
		e.g.Add(m)
	}
	e.g.Add(z.LitNull)
}

// literal returns the boolean standing for l.
func (e *encoder) literal(l Literal) z.Lit {
	if m, ok := e.lits[l]; ok {
		return m
	}
	m := e.fresh()
	e.lits[l] = m
	return m
}

func (e *encoder) exactlyOne(v Var, vals []int) {
	ms := make([]z.Lit, len(vals))
	for i, val := range vals {
		ms[i] = e.literal(Lit(v, val))
	}
	e.clause(ms...)
	e.pairwise(ms)
	e.forbidOthers(v, vals)
}

func (e *encoder) atMostOne(v Var, vals []int) {
	ms := make([]z.Lit, len(vals))
	for i, val := range vals {
		ms[i] = e.literal(Lit(v, val))
	}
	e.pairwise(ms)
}

func (e *encoder) pairwise(ms []z.Lit) {
	for i := range ms {
		for j := i + 1; j < len(ms); j++ {
			e.clause(ms[i].Not(), ms[j].Not())
		}
	}
}

// forbidOthers pins literals on out-of-domain values of v to false.
func (e *encoder) forbidOthers(v Var, vals []int) {
	in := make(map[int]bool, len(vals))
	for _, val := range vals {
		in[val] = true
	}
	for l, m := range e.lits {
		if l.Var == v && !in[l.Value] {
			e.clause(m.Not())
		}
	}
}

// formula returns a boolean equivalent to f.
func (e *encoder) formula(f Formula) z.Lit {
	out := e.fresh()
	terms := make([]z.Lit, 0, len(f.Clauses))
	for _, c := range f.Clauses {
		t := e.fresh()
		back := make([]z.Lit, 0, len(c)+1)
		back = append(back, t)
		for _, l := range c {
			m := e.literal(l)
			e.clause(t.Not(), m)
			back = append(back, m.Not())
		}
		e.clause(back...)
		terms = append(terms, t)
	}

	// out <-> OR(terms)
	e.clause(append([]z.Lit{out.Not()}, terms...)...)
	for _, t := range terms {
		e.clause(out, t.Not())
	}
	return out
}
