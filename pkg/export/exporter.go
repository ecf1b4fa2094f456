package export

import (
	"bytes"
	"context"
	"fmt"
)

// Format names an artifact kind.
type Format string

const (
	FormatJSON Format = "json"
	FormatDOT  Format = "dot"
)

// Tile is everything the exporters need about one processed tile type.
type Tile struct {
	Name    string
	Entries []Entry
	VarName VarNamer
	Sites   []DotSite
}

// Exporter writes one format for the selected tile types. Artifacts are
// named <Prefix><tile type>.<format>.
type Exporter struct {
	Format    Format
	Prefix    string
	Selection Selection
	Sink      Sink
}

// Wants reports whether tileType should be exported.
func (e *Exporter) Wants(tileType string) bool {
	return e != nil && e.Sink != nil && e.Selection.Contains(tileType)
}

// Name returns the artifact name for tileType.
func (e *Exporter) Name(tileType string) string {
	return e.Prefix + tileType + "." + string(e.Format)
}

// Render encodes t in the exporter's format.
func (e *Exporter) Render(t Tile) ([]byte, error) {
	switch e.Format {
	case FormatJSON:
		return EncodeTile(t.Entries, t.VarName)
	case FormatDOT:
		var buf bytes.Buffer
		if err := WriteTileDot(&buf, t.Name, t.Sites); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown export format %q", e.Format)
	}
}

// Export renders t and stores it. It returns the artifact location, or ""
// when t is not selected.
func (e *Exporter) Export(ctx context.Context, t Tile) (string, error) {
	if !e.Wants(t.Name) {
		return "", nil
	}
	data, err := e.Render(t)
	if err != nil {
		return "", fmt.Errorf("render %s %s: %w", e.Format, t.Name, err)
	}
	name := e.Name(t.Name)
	if err := e.Sink.Put(ctx, name, data); err != nil {
		return "", fmt.Errorf("write %s: %w", e.Sink.Location(name), err)
	}
	return e.Sink.Location(name), nil
}
