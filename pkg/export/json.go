package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/dd0wney/cluso-siteroute/pkg/formula"
)

// ErrFalseFormula is returned for a formula with no clauses; routable pairs
// always have at least one.
var ErrFalseFormula = errors.New("formula of a routable pair is false")

// Entry is the routing information of one pin pair, in tile-local indices.
type Entry struct {
	Source   int
	Sink     int
	Requires formula.Formula
	Implies  formula.Formula
}

// Key returns the JSON key of the entry, "<src>-><dst>".
func (e Entry) Key() string {
	return fmt.Sprintf("%d->%d", e.Source, e.Sink)
}

// VarNamer renders a tile-level state variable as a JSON object key.
type VarNamer func(formula.Var) string

// VarIDs names variables by their numeric id.
func VarIDs(v formula.Var) string {
	return strconv.Itoa(int(v))
}

type entryJSON struct {
	Requires [][]map[string]int `json:"requires"`
	Implies  [][]map[string]int `json:"implies"`
}

// EncodeTile renders the entries of one tile type as
//
//	{"<src>-><dst>": {"requires": [[{"<var>": value}, ...], ...], "implies": [...]}}
//
// A true formula is written as an empty list.
func EncodeTile(entries []Entry, name VarNamer) ([]byte, error) {
	if name == nil {
		name = VarIDs
	}
	out := make(map[string]entryJSON, len(entries))
	for _, e := range entries {
		req, err := encodeFormula(e.Requires, name)
		if err != nil {
			return nil, fmt.Errorf("%s requires: %w", e.Key(), err)
		}
		imp, err := encodeFormula(e.Implies, name)
		if err != nil {
			return nil, fmt.Errorf("%s implies: %w", e.Key(), err)
		}
		out[e.Key()] = entryJSON{Requires: req, Implies: imp}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeFormula(f formula.Formula, name VarNamer) ([][]map[string]int, error) {
	if f.IsFalse() {
		return nil, ErrFalseFormula
	}
	clauses := make([][]map[string]int, 0, len(f.Clauses))
	if f.IsTrue() {
		return clauses, nil
	}
	for _, c := range f.Clauses {
		lits := make([]map[string]int, len(c))
		for i, l := range c {
			lits[i] = map[string]int{name(l.Var): l.Value}
		}
		clauses = append(clauses, lits)
	}
	return clauses, nil
}
