package formula

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

const (
	x Var = iota
	y
	z2
)

func clause(lits ...Literal) Clause { return NewClause(lits...) }

func dnf(clauses ...Clause) Formula { return Formula{Clauses: clauses} }

func TestOptimize(t *testing.T) {
	tests := []struct {
		name    string
		domains Domains
		in      Formula
		want    Formula
	}{
		{
			name: "false stays false",
			in:   False(),
			want: False(),
		},
		{
			name: "unconditional clause makes the formula true",
			in:   dnf(clause(Lit(x, 1)), clause()),
			want: True(),
		},
		{
			name: "alternatives on an open variable are kept",
			in:   dnf(clause(Lit(x, 2)), clause(Lit(x, 1))),
			want: dnf(clause(Lit(x, 1)), clause(Lit(x, 2))),
		},
		{
			name: "single conjunction is kept",
			in:   dnf(clause(Lit(y, 0), Lit(x, 1))),
			want: dnf(clause(Lit(x, 1), Lit(y, 0))),
		},
		{
			name: "duplicates are removed",
			in:   dnf(clause(Lit(x, 1)), clause(Lit(x, 1))),
			want: dnf(clause(Lit(x, 1))),
		},
		{
			name: "superset clause is absorbed",
			in:   dnf(clause(Lit(x, 1), Lit(y, 0)), clause(Lit(x, 1))),
			want: dnf(clause(Lit(x, 1))),
		},
		{
			name: "contradictory clause is dropped",
			in:   dnf(clause(Lit(x, 0), Lit(x, 1)), clause(Lit(y, 0))),
			want: dnf(clause(Lit(y, 0))),
		},
		{
			name:    "value outside a bounded domain is false",
			domains: Domains{x: 2},
			in:      dnf(clause(Lit(x, 2)), clause(Lit(y, 0))),
			want:    dnf(clause(Lit(y, 0))),
		},
		{
			name:    "complementary clauses over a bounded variable merge",
			domains: Domains{x: 2},
			in:      dnf(clause(Lit(x, 0), Lit(y, 1)), clause(Lit(x, 1), Lit(y, 1))),
			want:    dnf(clause(Lit(y, 1))),
		},
		{
			name:    "full cover of a bounded domain is true",
			domains: Domains{x: 3},
			in:      dnf(clause(Lit(x, 0)), clause(Lit(x, 1)), clause(Lit(x, 2))),
			want:    True(),
		},
		{
			name: "partial cover of an open domain is not merged",
			in:   dnf(clause(Lit(x, 0), Lit(y, 1)), clause(Lit(x, 1), Lit(y, 1))),
			want: dnf(clause(Lit(x, 0), Lit(y, 1)), clause(Lit(x, 1), Lit(y, 1))),
		},
		{
			name:    "literal covered by a case split is dropped",
			domains: Domains{x: 2},
			in:      dnf(clause(Lit(y, 0)), clause(Lit(x, 0), Lit(y, 1)), clause(Lit(x, 1), Lit(y, 1), Lit(z2, 0))),
			want:    dnf(clause(Lit(y, 0)), clause(Lit(x, 0), Lit(y, 1)), clause(Lit(y, 1), Lit(z2, 0))),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewOptimizer(tt.domains).Optimize(tt.in)
			if !sameFormula(got, tt.want) {
				t.Errorf("Optimize(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestOptimizeClauseOrder(t *testing.T) {
	in := dnf(
		clause(Lit(x, 1), Lit(y, 1), Lit(z2, 1)),
		clause(Lit(y, 2)),
		clause(Lit(x, 2), Lit(z2, 0)),
	)
	got := NewOptimizer(nil).Optimize(in)

	for i := 1; i < len(got.Clauses); i++ {
		if len(got.Clauses[i-1]) > len(got.Clauses[i]) {
			t.Fatalf("clauses not ordered by length: %v", got)
		}
	}
}

func sameFormula(a, b Formula) bool {
	if len(a.Clauses) != len(b.Clauses) {
		return false
	}
	for i := range a.Clauses {
		if !a.Clauses[i].Equal(b.Clauses[i]) {
			return false
		}
	}
	return true
}

// testDomains mixes bounded and open variables. Values are drawn from 0..2,
// so variable 2 also sees values outside its domain.
var testDomains = Domains{0: 3, 1: 3, 2: 2}

// decodeFormula turns generated codes into a formula over four variables.
func decodeFormula(codes [][]int) Formula {
	f := Formula{}
	for _, cs := range codes {
		lits := make([]Literal, 0, len(cs))
		for _, k := range cs {
			lits = append(lits, Lit(Var(k/3), k%3))
		}
		f.Clauses = append(f.Clauses, NewClause(lits...))
	}
	return f
}

func formulaGen() gopter.Gen {
	return gen.SliceOf(gen.SliceOf(gen.IntRange(0, 11)))
}

func optimizerParameters() *gopter.TestParameters {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.MaxSize = 6
	return parameters
}

func TestOptimizeProperties(t *testing.T) {
	properties := gopter.NewProperties(optimizerParameters())
	opt := NewOptimizer(testDomains)

	properties.Property("optimized formula is equivalent", prop.ForAll(
		func(codes [][]int) bool {
			in := decodeFormula(codes)
			ok, err := EquivalentExhaustive(in, opt.Optimize(in), testDomains)
			return err == nil && ok
		},
		formulaGen(),
	))

	properties.Property("optimization never grows a formula", prop.ForAll(
		func(codes [][]int) bool {
			in := decodeFormula(codes)
			out := opt.Optimize(in)
			inClauses, inLits := in.Size()
			outClauses, outLits := out.Size()
			if in.IsTrue() {
				return out.IsTrue()
			}
			return outClauses <= inClauses && outLits <= inLits
		},
		formulaGen(),
	))

	properties.Property("optimization is idempotent", prop.ForAll(
		func(codes [][]int) bool {
			once := opt.Optimize(decodeFormula(codes))
			return sameFormula(once, opt.Optimize(once))
		},
		formulaGen(),
	))

	properties.TestingRun(t)
}
