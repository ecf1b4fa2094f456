package formula

// Optimizer simplifies DNF formulas without changing their meaning over the
// variable domains it was built with.
//
// Algorithm: the following passes run until none of them changes the formula:
//   - drop clauses that are unsatisfiable (two values for one variable, or a
//     value outside a bounded domain)
//   - drop duplicates and clauses that contain another clause (absorption)
//   - drop a literal L from clause C = R & L when R alone already implies the
//     formula (literal absorption)
//
// Each pass only removes clauses or literals, so the loop ends after at most
// as many rounds as the input has literals and clauses.
type Optimizer struct {
	domains Domains
}

// NewOptimizer creates an optimizer for formulas over the given domains.
// A nil Domains treats every variable as open.
func NewOptimizer(domains Domains) *Optimizer {
	if domains == nil {
		domains = Domains{}
	}
	return &Optimizer{domains: domains}
}

// Optimize returns a formula equivalent to f, no larger than f, in canonical
// clause order. Optimizing an already optimized formula returns it unchanged.
func (o *Optimizer) Optimize(f Formula) Formula {
	clauses := make([]Clause, 0, len(f.Clauses))
	for _, c := range f.Clauses {
		c = NewClause(c...)
		if !o.satisfiable(c) {
			continue
		}
		if c.IsTrue() {
			return True()
		}
		clauses = append(clauses, c)
	}

	for {
		var absorbed, reduced bool
		clauses, absorbed = absorbClauses(clauses)
		clauses, reduced = o.absorbLiterals(clauses)
		if !absorbed && !reduced {
			break
		}
	}

	for _, c := range clauses {
		if c.IsTrue() {
			return True()
		}
	}
	return Formula{Clauses: clauses}.Canonical()
}

func (o *Optimizer) satisfiable(c Clause) bool {
	if c.IsContradiction() {
		return false
	}
	for _, l := range c {
		if l.Value < 0 {
			return false
		}
		if n, ok := o.domains.Bounded(l.Var); ok && l.Value >= n {
			return false
		}
	}
	return true
}

// absorbClauses removes duplicate clauses and clauses that are supersets of
// another clause.
func absorbClauses(clauses []Clause) ([]Clause, bool) {
	sorted := Formula{Clauses: clauses}.Canonical().Clauses
	kept := make([]Clause, 0, len(sorted))
	for _, c := range sorted {
		covered := false
		for _, k := range kept {
			if k.SubsetOf(c) {
				covered = true
				break
			}
		}
		if !covered {
			kept = append(kept, c)
		}
	}
	return kept, len(kept) != len(clauses)
}

// absorbLiterals drops every literal whose removal keeps the formula
// equivalent. Replacing C by R is sound exactly when R implies the formula.
func (o *Optimizer) absorbLiterals(clauses []Clause) ([]Clause, bool) {
	changed := false
	for i := range clauses {
		for j := 0; j < len(clauses[i]); {
			rest := clauses[i].Without(j)
			if o.implies(rest, clauses) {
				clauses[i] = rest
				changed = true
				continue
			}
			j++
		}
	}
	return clauses, changed
}

// implies reports whether clause r entails the disjunction of clauses. It is
// sound but not complete: a clause must be contained in r, or one bounded
// variable left free by r must be covered value by value.
func (o *Optimizer) implies(r Clause, clauses []Clause) bool {
	if coveredBy(r, clauses) {
		return true
	}

	tried := make(map[Var]bool)
	for _, c := range clauses {
		for _, l := range c {
			x := l.Var
			if tried[x] {
				continue
			}
			tried[x] = true
			if _, fixed := r.ValueOf(x); fixed {
				continue
			}
			n, ok := o.domains.Bounded(x)
			if !ok {
				continue
			}
			all := true
			for w := 0; w < n; w++ {
				if !coveredBy(r.With(Lit(x, w)), clauses) {
					all = false
					break
				}
			}
			if all {
				return true
			}
		}
	}
	return false
}

func coveredBy(r Clause, clauses []Clause) bool {
	for _, d := range clauses {
		if d.SubsetOf(r) {
			return true
		}
	}
	return false
}
