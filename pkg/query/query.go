// Package query parses pin pair expressions such as
//
//	0 -> 10
//	SLICE[1]/IN.P -> SLICE[1]/OUT.P
//	IOB/PAD.P -> 6
//
// and resolves them to tile-local pin indices.
package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/dd0wney/cluso-siteroute/pkg/device"
	"github.com/dd0wney/cluso-siteroute/pkg/index"
)

// ErrUnresolved is returned when a pin expression names no pin of the tile
// type.
var ErrUnresolved = errors.New("unresolved pin")

var pairLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Arrow", Pattern: `->`},
	{Name: "Ident", Pattern: `[A-Za-z0-9_]*[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `[\[\]/.]`},
})

// Pair is a source and sink pin.
type Pair struct {
	Source *Pin `@@ "->"`
	Sink   *Pin `@@`
}

// Pin is either a tile-local index or a named pin.
type Pin struct {
	Pos   lexer.Position
	Index *int      `(  @Int`
	Named *NamedPin ` | @@ )`
}

// NamedPin is "SITE[i]/BEL.PIN". The instance may be omitted when the site
// type occurs once in the tile type.
type NamedPin struct {
	Site     string `@(Ident | Int)`
	Instance *int   `( "[" @Int "]" )?`
	BEL      string `"/" @(Ident | Int)`
	Pin      string `"." @(Ident | Int)`
}

func (p *Pin) String() string {
	if p.Index != nil {
		return fmt.Sprint(*p.Index)
	}
	n := p.Named
	if n.Instance != nil {
		return fmt.Sprintf("%s[%d]/%s.%s", n.Site, *n.Instance, n.BEL, n.Pin)
	}
	return fmt.Sprintf("%s/%s.%s", n.Site, n.BEL, n.Pin)
}

var parser = participle.MustBuild[Pair](
	participle.Lexer(pairLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// Parse parses a pair expression.
func Parse(s string) (*Pair, error) {
	pair, err := parser.ParseString("", strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("parse pin pair %q: %w", s, err)
	}
	return pair, nil
}

// ParsePin parses a single pin expression.
func ParsePin(s string) (*Pin, error) {
	pair, err := Parse(s + " -> 0")
	if err != nil {
		return nil, fmt.Errorf("parse pin %q: %w", s, err)
	}
	return pair.Source, nil
}

// Resolve returns the tile-local index of p in tile type tt.
func Resolve(p *Pin, dev *device.Device, ix *index.Index, tt int) (int, error) {
	_, count, err := ix.TileRange(tt)
	if err != nil {
		return -1, err
	}
	if p.Index != nil {
		if *p.Index >= count {
			return -1, fmt.Errorf("%w: %d: tile type %s has %d pins", ErrUnresolved, *p.Index, dev.TileTypes[tt].Name, count)
		}
		return *p.Index, nil
	}

	site, err := findSite(p.Named, dev.TileTypes[tt])
	if err != nil {
		return -1, err
	}
	st, _ := dev.SiteType(dev.TileTypes[tt].Sites[site])
	bel := st.BELIndex(p.Named.BEL)
	if bel < 0 {
		return -1, fmt.Errorf("%w: %s: site type %s has no BEL %s", ErrUnresolved, p, st.Name, p.Named.BEL)
	}
	pin := st.BELs[bel].PinIndex(p.Named.Pin)
	if pin < 0 {
		return -1, fmt.Errorf("%w: %s: BEL %s has no pin %s", ErrUnresolved, p, p.Named.BEL, p.Named.Pin)
	}
	return ix.Local(index.PinRef{TileType: tt, Site: site, BEL: bel, Pin: pin})
}

func findSite(n *NamedPin, tt device.TileType) (int, error) {
	if n.Instance != nil {
		i := *n.Instance
		if i >= len(tt.Sites) || tt.Sites[i] != n.Site {
			return -1, fmt.Errorf("%w: tile type %s has no site %s[%d]", ErrUnresolved, tt.Name, n.Site, i)
		}
		return i, nil
	}
	found := -1
	for i, s := range tt.Sites {
		if s != n.Site {
			continue
		}
		if found >= 0 {
			return -1, fmt.Errorf("%w: site %s occurs more than once in tile type %s, give an instance", ErrUnresolved, n.Site, tt.Name)
		}
		found = i
	}
	if found < 0 {
		return -1, fmt.Errorf("%w: tile type %s has no site %s", ErrUnresolved, tt.Name, n.Site)
	}
	return found, nil
}

// ResolvePair resolves both ends of pair.
func ResolvePair(pair *Pair, dev *device.Device, ix *index.Index, tt int) (src, dst int, err error) {
	if src, err = Resolve(pair.Source, dev, ix, tt); err != nil {
		return -1, -1, err
	}
	if dst, err = Resolve(pair.Sink, dev, ix, tt); err != nil {
		return -1, -1, err
	}
	return src, dst, nil
}
