package formula

import (
	"fmt"
	"sort"
	"strings"
)

// Var identifies a state variable. Variables are dense integers scoped to one
// site graph; tile-level variables are obtained by offsetting with MapVars.
type Var int

// Literal asserts that state variable Var holds Value.
type Literal struct {
	Var   Var
	Value int
}

// Lit is shorthand for Literal{Var: v, Value: value}.
func Lit(v Var, value int) Literal {
	return Literal{Var: v, Value: value}
}

// Less orders literals by variable, then by value.
func (l Literal) Less(o Literal) bool {
	if l.Var != o.Var {
		return l.Var < o.Var
	}
	return l.Value < o.Value
}

// ConflictsWith reports whether both literals constrain the same variable to
// different values.
func (l Literal) ConflictsWith(o Literal) bool {
	return l.Var == o.Var && l.Value != o.Value
}

func (l Literal) String() string {
	return fmt.Sprintf("v%d=%d", l.Var, l.Value)
}

// Clause is a conjunction of literals kept sorted by (Var, Value) with no
// duplicates. The empty clause is true.
type Clause []Literal

// NewClause builds a sorted, duplicate-free clause. Contradictory literals are
// kept so that IsContradiction can detect them.
func NewClause(lits ...Literal) Clause {
	c := make(Clause, len(lits))
	copy(c, lits)
	sort.Slice(c, func(i, j int) bool { return c[i].Less(c[j]) })

	out := c[:0]
	for i, l := range c {
		if i > 0 && l == c[i-1] {
			continue
		}
		out = append(out, l)
	}
	return out
}

// IsTrue reports whether the clause has no literals.
func (c Clause) IsTrue() bool {
	return len(c) == 0
}

// IsContradiction reports whether the clause assigns two values to one variable.
func (c Clause) IsContradiction() bool {
	for i := 1; i < len(c); i++ {
		if c[i].Var == c[i-1].Var {
			return true
		}
	}
	return false
}

// Contains reports whether l is one of the clause's literals.
func (c Clause) Contains(l Literal) bool {
	i := sort.Search(len(c), func(i int) bool { return !c[i].Less(l) })
	return i < len(c) && c[i] == l
}

// ValueOf returns the value the clause fixes for v, if any.
func (c Clause) ValueOf(v Var) (int, bool) {
	i := sort.Search(len(c), func(i int) bool { return c[i].Var >= v })
	if i < len(c) && c[i].Var == v {
		return c[i].Value, true
	}
	return 0, false
}

// SubsetOf reports whether every literal of c also appears in o.
func (c Clause) SubsetOf(o Clause) bool {
	if len(c) > len(o) {
		return false
	}
	j := 0
	for _, l := range c {
		for j < len(o) && o[j].Less(l) {
			j++
		}
		if j == len(o) || o[j] != l {
			return false
		}
		j++
	}
	return true
}

// Equal reports whether both clauses hold the same literals.
func (c Clause) Equal(o Clause) bool {
	if len(c) != len(o) {
		return false
	}
	for i := range c {
		if c[i] != o[i] {
			return false
		}
	}
	return true
}

// Without returns a copy of c with the literal at position i removed.
func (c Clause) Without(i int) Clause {
	out := make(Clause, 0, len(c)-1)
	out = append(out, c[:i]...)
	return append(out, c[i+1:]...)
}

// With returns a copy of c extended by l.
func (c Clause) With(l Literal) Clause {
	if c.Contains(l) {
		return c
	}
	out := make(Clause, 0, len(c)+1)
	i := sort.Search(len(c), func(i int) bool { return !c[i].Less(l) })
	out = append(out, c[:i]...)
	out = append(out, l)
	return append(out, c[i:]...)
}

// Compare orders clauses by length, then lexicographically by literal.
func (c Clause) Compare(o Clause) int {
	if len(c) != len(o) {
		if len(c) < len(o) {
			return -1
		}
		return 1
	}
	for i := range c {
		if c[i] == o[i] {
			continue
		}
		if c[i].Less(o[i]) {
			return -1
		}
		return 1
	}
	return 0
}

func (c Clause) String() string {
	return c.Format(Literal.String)
}

// Format renders c as "a & b", naming each literal with lit.
func (c Clause) Format(lit func(Literal) string) string {
	if len(c) == 0 {
		return "true"
	}
	parts := make([]string, len(c))
	for i, l := range c {
		parts[i] = lit(l)
	}
	return strings.Join(parts, " & ")
}
