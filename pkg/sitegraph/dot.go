package sitegraph

import (
	"fmt"
	"io"
	"strings"

	"github.com/dd0wney/cluso-siteroute/pkg/device"
)

// Dot writes g as a standalone graphviz digraph.
func (g *Graph) Dot(w io.Writer) error {
	dw := &dotWriter{w: w}
	dw.printf("digraph %s {\n", dotID(g.siteType))
	dw.printf("    rankdir = LR;\n")
	g.writeBody(dw, "", "    ")
	dw.printf("}\n")
	return dw.err
}

// DotCluster writes g as a subgraph cluster. Node ids are prefixed with
// prefix so several clusters can share one digraph.
func (g *Graph) DotCluster(w io.Writer, prefix, label string) error {
	dw := &dotWriter{w: w}
	dw.printf("    subgraph %s {\n", dotID("cluster_"+prefix))
	dw.printf("        label = %q;\n", label)
	g.writeBody(dw, prefix, "        ")
	dw.printf("    }\n")
	return dw.err
}

func (g *Graph) writeBody(dw *dotWriter, prefix, indent string) {
	for i, n := range g.nodes {
		id := dotID(fmt.Sprintf("%sn%d", prefix, i))
		if n.Kind == WireNode {
			dw.printf("%s%s [label=%q, shape=plaintext];\n", indent, id, n.Name)
			continue
		}
		dw.printf("%s%s [label=%q, shape=box, style=filled, fillcolor=%q];\n",
			indent, id, fmt.Sprintf("%d: %s", i, n.Name), categoryColor(n.Category))
	}

	for _, e := range g.edges {
		from := dotID(fmt.Sprintf("%sn%d", prefix, e.From))
		to := dotID(fmt.Sprintf("%sn%d", prefix, e.To))
		var attrs []string
		if e.Kind == Pseudo {
			attrs = append(attrs, "style=dashed")
		}
		var label []string
		if e.Requires != nil {
			label = append(label, "req "+g.LiteralString(*e.Requires))
		}
		if e.Implies != nil {
			label = append(label, "imp "+g.LiteralString(*e.Implies))
		}
		if len(label) > 0 {
			attrs = append(attrs, fmt.Sprintf("label=%q", strings.Join(label, "\n")))
		}
		if len(attrs) > 0 {
			dw.printf("%s%s -> %s [%s];\n", indent, from, to, strings.Join(attrs, ", "))
		} else {
			dw.printf("%s%s -> %s;\n", indent, from, to)
		}
	}
}

func categoryColor(c device.Category) string {
	switch c {
	case device.Routing:
		return "lightblue"
	case device.SitePort:
		return "orange"
	default:
		return "lightgrey"
	}
}

// dotID quotes s unless it is a plain identifier.
func dotID(s string) string {
	if s == "" || s[0] >= '0' && s[0] <= '9' {
		return fmt.Sprintf("%q", s)
	}
	for _, r := range s {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return fmt.Sprintf("%q", s)
		}
	}
	return s
}

type dotWriter struct {
	w   io.Writer
	err error
}

func (dw *dotWriter) printf(format string, args ...any) {
	if dw.err != nil {
		return
	}
	_, dw.err = fmt.Fprintf(dw.w, format, args...)
}
