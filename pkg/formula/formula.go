package formula

import (
	"sort"
	"strings"
)

// Formula is a disjunction of clauses. A formula without clauses is false;
// a formula containing the empty clause is true.
type Formula struct {
	Clauses []Clause
}

// False returns the formula with no clauses.
func False() Formula {
	return Formula{}
}

// True returns the formula consisting of a single empty clause.
func True() Formula {
	return Formula{Clauses: []Clause{{}}}
}

// Or returns f extended by clause c.
func (f Formula) Or(c Clause) Formula {
	out := make([]Clause, len(f.Clauses), len(f.Clauses)+1)
	copy(out, f.Clauses)
	return Formula{Clauses: append(out, c)}
}

// IsTrue reports whether some clause of f is empty.
func (f Formula) IsTrue() bool {
	for _, c := range f.Clauses {
		if c.IsTrue() {
			return true
		}
	}
	return false
}

// IsFalse reports whether f has no clauses.
func (f Formula) IsFalse() bool {
	return len(f.Clauses) == 0
}

// Size returns the number of clauses and the total number of literals.
func (f Formula) Size() (clauses, literals int) {
	for _, c := range f.Clauses {
		literals += len(c)
	}
	return len(f.Clauses), literals
}

// Vars returns the sorted set of variables mentioned by f.
func (f Formula) Vars() []Var {
	seen := make(map[Var]struct{})
	for _, c := range f.Clauses {
		for _, l := range c {
			seen[l.Var] = struct{}{}
		}
	}
	vars := make([]Var, 0, len(seen))
	for v := range seen {
		vars = append(vars, v)
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i] < vars[j] })
	return vars
}

// MapVars returns a copy of f with every variable rewritten by fn. fn must be
// order preserving so clauses stay sorted.
func (f Formula) MapVars(fn func(Var) Var) Formula {
	out := Formula{Clauses: make([]Clause, len(f.Clauses))}
	for i, c := range f.Clauses {
		nc := make(Clause, len(c))
		for j, l := range c {
			nc[j] = Literal{Var: fn(l.Var), Value: l.Value}
		}
		out.Clauses[i] = nc
	}
	return out
}

// SortByLength orders clauses by literal count, keeping the relative order
// of clauses with equal length.
func (f Formula) SortByLength() {
	sort.SliceStable(f.Clauses, func(i, j int) bool {
		return len(f.Clauses[i]) < len(f.Clauses[j])
	})
}

// Canonical returns a copy of f with clauses sorted by Clause.Compare.
func (f Formula) Canonical() Formula {
	out := Formula{Clauses: make([]Clause, len(f.Clauses))}
	copy(out.Clauses, f.Clauses)
	sort.SliceStable(out.Clauses, func(i, j int) bool {
		return out.Clauses[i].Compare(out.Clauses[j]) < 0
	})
	return out
}

// Assignment maps variables to values. Unassigned variables match no literal.
type Assignment map[Var]int

// Eval evaluates f under a.
func (f Formula) Eval(a Assignment) bool {
	for _, c := range f.Clauses {
		if c.Eval(a) {
			return true
		}
	}
	return false
}

// Eval reports whether every literal of c holds under a.
func (c Clause) Eval(a Assignment) bool {
	for _, l := range c {
		v, ok := a[l.Var]
		if !ok || v != l.Value {
			return false
		}
	}
	return true
}

func (f Formula) String() string {
	return f.Format(Literal.String)
}

// Format renders f as "(a & b) | (c)", naming each literal with lit.
func (f Formula) Format(lit func(Literal) string) string {
	if f.IsFalse() {
		return "false"
	}
	parts := make([]string, len(f.Clauses))
	for i, c := range f.Clauses {
		parts[i] = "(" + c.Format(lit) + ")"
	}
	return strings.Join(parts, " | ")
}

// Domains records the number of values each variable can take. A missing or
// zero entry means the domain is open: any value not otherwise mentioned is
// possible.
type Domains map[Var]int

// Bounded returns the domain size of v and whether it is known.
func (d Domains) Bounded(v Var) (int, bool) {
	n, ok := d[v]
	return n, ok && n > 0
}
