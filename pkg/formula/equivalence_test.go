package formula

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/prop"
)

func TestEquivalent(t *testing.T) {
	tests := []struct {
		name    string
		domains Domains
		a, b    Formula
		want    bool
	}{
		{"identical", nil, dnf(clause(Lit(x, 1))), dnf(clause(Lit(x, 1))), true},
		{"true and false", nil, True(), False(), false},
		{"open cover is not true", nil, dnf(clause(Lit(x, 0)), clause(Lit(x, 1))), True(), false},
		{"bounded cover is true", Domains{x: 2}, dnf(clause(Lit(x, 0)), clause(Lit(x, 1))), True(), true},
		{"absorption", nil, dnf(clause(Lit(x, 1)), clause(Lit(x, 1), Lit(y, 0))), dnf(clause(Lit(x, 1))), true},
		{"different values", nil, dnf(clause(Lit(x, 1))), dnf(clause(Lit(x, 2))), false},
		{"out of domain literal is false", Domains{x: 2}, dnf(clause(Lit(x, 5)), clause(Lit(y, 0))), dnf(clause(Lit(y, 0))), true},
		{"contradiction is false", nil, dnf(clause(Lit(x, 0), Lit(x, 1))), False(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equivalent(tt.a, tt.b, tt.domains); got != tt.want {
				t.Errorf("Equivalent = %v, want %v", got, tt.want)
			}
			got, err := EquivalentExhaustive(tt.a, tt.b, tt.domains)
			if err != nil {
				t.Fatalf("EquivalentExhaustive: %v", err)
			}
			if got != tt.want {
				t.Errorf("EquivalentExhaustive = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEquivalentExhaustiveLimit(t *testing.T) {
	f := False()
	for v := Var(0); v < 30; v++ {
		f = f.Or(clause(Lit(v, 1)))
	}
	_, err := EquivalentExhaustive(f, f, nil)
	if !errors.Is(err, ErrTooManyAssignments) {
		t.Fatalf("expected ErrTooManyAssignments, got %v", err)
	}
}

func TestEquivalentAgreesWithEnumeration(t *testing.T) {
	properties := gopter.NewProperties(optimizerParameters())

	properties.Property("SAT check matches enumeration", prop.ForAll(
		func(a, b [][]int) bool {
			fa, fb := decodeFormula(a), decodeFormula(b)
			want, err := EquivalentExhaustive(fa, fb, testDomains)
			if err != nil {
				return false
			}
			return Equivalent(fa, fb, testDomains) == want
		},
		formulaGen(),
		formulaGen(),
	))

	properties.Property("SAT check accepts optimizer output", prop.ForAll(
		func(codes [][]int) bool {
			in := decodeFormula(codes)
			return Equivalent(in, NewOptimizer(testDomains).Optimize(in), testDomains)
		},
		formulaGen(),
	))

	properties.TestingRun(t)
}
