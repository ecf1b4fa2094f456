package preprocess

import (
	"fmt"
	"sort"
	"time"

	"github.com/dd0wney/cluso-siteroute/pkg/constraints"
	"github.com/dd0wney/cluso-siteroute/pkg/device"
	"github.com/dd0wney/cluso-siteroute/pkg/export"
	"github.com/dd0wney/cluso-siteroute/pkg/formula"
	"github.com/dd0wney/cluso-siteroute/pkg/index"
	"github.com/dd0wney/cluso-siteroute/pkg/metrics"
	"github.com/dd0wney/cluso-siteroute/pkg/router"
	"github.com/dd0wney/cluso-siteroute/pkg/sitegraph"
)

// Options control how a tile type is processed.
type Options struct {
	Router      router.Options
	Constraints constraints.Options
}

// Options derives the processing options from c.
func (c Config) Options() Options {
	return Options{
		Router: router.Options{MaxRoutesPerPair: c.MaxRoutesPerPair},
		Constraints: constraints.Options{
			SkipOptimization: !c.OptimizeFormulas,
			Verify:           c.VerifyFormulas,
		},
	}
}

// SiteInstance is one site of a processed tile type.
type SiteInstance struct {
	Index    int // position in the tile type
	SiteType string
	Graph    *sitegraph.Graph
	PinBase  int         // tile-local index of the site's first pin
	VarBase  formula.Var // tile-level id of the site's first state variable
}

// Label names the instance as "SLICE[1]".
func (s SiteInstance) Label() string {
	return fmt.Sprintf("%s[%d]", s.SiteType, s.Index)
}

// Summary counts what routing one tile type produced.
type Summary struct {
	Pins      int
	Pairs     int
	Routes    int
	Steps     int
	Truncated int
	// OutOfSiteSources maps a pin to the site port pins that reach it.
	OutOfSiteSources map[int][]int
	// OutOfSiteSinks maps a pin to the site port pins it reaches.
	OutOfSiteSinks map[int][]int
	Formulas       constraints.Stats
	RoutesPerPair  []int
}

// TileResult is the routing information of one tile type.
type TileResult struct {
	Name    string
	Index   int
	Sites   []SiteInstance
	Entries []export.Entry // ordered by source, then sink
	// StateNames holds the readable name of each tile-level state variable.
	StateNames []string
	Summary    Summary
	Duration   time.Duration
}

// VarNamer names tile-level variables by id, or by state name when debug
// is set.
func (t *TileResult) VarNamer(debug bool) export.VarNamer {
	if !debug {
		return export.VarIDs
	}
	return func(v formula.Var) string {
		if int(v) < len(t.StateNames) {
			return t.StateNames[v]
		}
		return export.VarIDs(v)
	}
}

// ExportTile returns the exporter view of t.
func (t *TileResult) ExportTile(debug bool) export.Tile {
	sites := make([]export.DotSite, len(t.Sites))
	for i, s := range t.Sites {
		sites[i] = export.DotSite{Label: s.Label(), Graph: s.Graph}
	}
	return export.Tile{Name: t.Name, Entries: t.Entries, VarName: t.VarNamer(debug), Sites: sites}
}

// siteRouting is the routing of one site type in site-local ids. Every
// instance of the site type shares it.
type siteRouting struct {
	graph         *sitegraph.Graph
	conns         []constraints.Connection
	router        router.Stats
	formulas      constraints.Stats
	routesPerPair []int
}

// routeSite enumerates the routes from every pin of g that has outgoing
// edges and builds the connection formulas.
func routeSite(g *sitegraph.Graph, opts Options) (*siteRouting, error) {
	r := router.New(g, opts.Router)
	b := constraints.NewBuilder(g.Domains(), opts.Constraints)
	sr := &siteRouting{graph: g}

	for p := 0; p < g.PinCount(); p++ {
		src := sitegraph.NodeID(p)
		if len(g.Out(src)) == 0 {
			continue
		}
		sinks, stats, err := r.EnumerateFrom(src)
		if err != nil {
			return nil, err
		}
		sr.router.Add(stats)
		for _, routes := range sinks {
			sr.routesPerPair = append(sr.routesPerPair, len(routes))
		}
		conns, err := b.Connections(src, sinks)
		if err != nil {
			return nil, fmt.Errorf("site type %s: %w", g.SiteType(), err)
		}
		sr.conns = append(sr.conns, conns...)
	}
	sr.formulas = b.Stats()
	return sr, nil
}

// ProcessTileType routes every site instance of tile type tt and assembles
// the tile-level result. Site types occurring several times are routed once.
func ProcessTileType(dev *device.Device, ix *index.Index, tt int, opts Options) (*TileResult, error) {
	if tt < 0 || tt >= len(dev.TileTypes) {
		return nil, fmt.Errorf("%w: index %d", ErrUnknownTileType, tt)
	}
	start := time.Now()
	tileType := dev.TileTypes[tt]
	res := &TileResult{
		Name:  tileType.Name,
		Index: tt,
		Summary: Summary{
			OutOfSiteSources: make(map[int][]int),
			OutOfSiteSinks:   make(map[int][]int),
		},
	}
	if _, count, err := ix.TileRange(tt); err == nil {
		res.Summary.Pins = count
	}

	routed := make(map[string]*siteRouting)
	var varBase formula.Var
	for i, name := range tileType.Sites {
		sr, ok := routed[name]
		if !ok {
			st, found := dev.SiteType(name)
			if !found {
				return nil, fmt.Errorf("%w: site type %s", device.ErrUndeclaredReference, name)
			}
			g, err := sitegraph.Build(st)
			if err != nil {
				return nil, err
			}
			if sr, err = routeSite(g, opts); err != nil {
				return nil, err
			}
			routed[name] = sr
		}

		inst := SiteInstance{
			Index:    i,
			SiteType: name,
			Graph:    sr.graph,
			PinBase:  ix.SiteBase(tt, i),
			VarBase:  varBase,
		}
		res.Sites = append(res.Sites, inst)
		res.addSite(inst, sr, len(tileType.Sites) > 1)
		varBase += formula.Var(len(sr.graph.States()))
	}

	res.Duration = time.Since(start)
	return res, nil
}

func (t *TileResult) addSite(inst SiteInstance, sr *siteRouting, qualify bool) {
	g := sr.graph
	for _, s := range g.States() {
		name := s.Name
		if qualify {
			name = fmt.Sprintf("%s#%d/%s", inst.SiteType, inst.Index, s.Name)
		}
		t.StateNames = append(t.StateNames, name)
	}

	shift := func(v formula.Var) formula.Var { return v + inst.VarBase }
	for _, c := range sr.conns {
		src, dst := inst.PinBase+int(c.Source), inst.PinBase+int(c.Sink)
		t.Entries = append(t.Entries, export.Entry{
			Source:   src,
			Sink:     dst,
			Requires: c.Requires.MapVars(shift),
			Implies:  c.Implies.MapVars(shift),
		})

		if from := g.Node(c.Source); from.Category == device.SitePort && from.Dir.Drives() {
			t.Summary.OutOfSiteSources[dst] = append(t.Summary.OutOfSiteSources[dst], src)
		}
		if to := g.Node(c.Sink); to.Category == device.SitePort && to.Dir.Sinks() {
			t.Summary.OutOfSiteSinks[src] = append(t.Summary.OutOfSiteSinks[src], dst)
		}
	}

	s := &t.Summary
	s.Pairs += len(sr.conns)
	s.Routes += sr.router.Routes
	s.Steps += sr.router.Steps
	s.Truncated += sr.router.Truncated
	s.RoutesPerPair = append(s.RoutesPerPair, sr.routesPerPair...)
	s.Formulas.Connections += sr.formulas.Connections
	s.Formulas.RawClauses += sr.formulas.RawClauses
	s.Formulas.RawLiterals += sr.formulas.RawLiterals
	s.Formulas.Clauses += sr.formulas.Clauses
	s.Formulas.Literals += sr.formulas.Literals
}

// Entry returns the entry of a pin pair, if it is routable.
func (t *TileResult) Entry(src, dst int) (export.Entry, bool) {
	i := sort.Search(len(t.Entries), func(i int) bool {
		e := t.Entries[i]
		return e.Source > src || e.Source == src && e.Sink >= dst
	})
	if i < len(t.Entries) && t.Entries[i].Source == src && t.Entries[i].Sink == dst {
		return t.Entries[i], true
	}
	return export.Entry{}, false
}

// MetricsStats converts the summary for the metrics registry.
func (s Summary) MetricsStats() metrics.TileTypeStats {
	return metrics.TileTypeStats{
		Connections:   s.Pairs,
		Routes:        s.Routes,
		Steps:         s.Steps,
		Truncated:     s.Truncated,
		RoutesPerPair: s.RoutesPerPair,
		RawClauses:    s.Formulas.RawClauses,
		RawLiterals:   s.Formulas.RawLiterals,
		Clauses:       s.Formulas.Clauses,
		Literals:      s.Formulas.Literals,
	}
}
