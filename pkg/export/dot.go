package export

import (
	"fmt"
	"io"

	"github.com/dd0wney/cluso-siteroute/pkg/sitegraph"
)

// DotSite is one site instance of a tile type.
type DotSite struct {
	Label string
	Graph *sitegraph.Graph
}

// WriteTileDot writes a digraph with one cluster per site instance.
func WriteTileDot(w io.Writer, tileType string, sites []DotSite) error {
	if _, err := fmt.Fprintf(w, "// routing graph of tile type %s\ndigraph %q {\n    rankdir = LR;\n", tileType, tileType); err != nil {
		return err
	}
	for i, s := range sites {
		if err := s.Graph.DotCluster(w, fmt.Sprintf("s%d_", i), s.Label); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}
