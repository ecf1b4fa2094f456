package preprocess

import (
	"fmt"

	"github.com/dd0wney/cluso-siteroute/pkg/constraints"
	"github.com/dd0wney/cluso-siteroute/pkg/device"
	"github.com/dd0wney/cluso-siteroute/pkg/index"
	"github.com/dd0wney/cluso-siteroute/pkg/query"
	"github.com/dd0wney/cluso-siteroute/pkg/router"
	"github.com/dd0wney/cluso-siteroute/pkg/sitegraph"
)

// PairResult describes every route between two pins of a tile type.
type PairResult struct {
	TileType   string
	Source     int
	Sink       int
	SourceName string
	SinkName   string
	// Routes are rendered with router.Describe, in discovery order.
	Routes    []string
	Truncated bool
	// Requires and Implies are rendered with state names; both are
	// "false" when the pair is not routable.
	Requires string
	Implies  string
}

// Routable reports whether at least one route exists.
func (p *PairResult) Routable() bool { return len(p.Routes) > 0 }

// QueryPair answers a pin pair expression such as "SLICE[0]/IN.P -> 10"
// for the named tile type. Pins in different site instances are never
// routable.
func QueryPair(dev *device.Device, ix *index.Index, tileType, expr string, opts Options) (*PairResult, error) {
	tt := dev.TileTypeIndex(tileType)
	if tt < 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTileType, tileType)
	}
	pair, err := query.Parse(expr)
	if err != nil {
		return nil, err
	}
	src, dst, err := query.ResolvePair(pair, dev, ix, tt)
	if err != nil {
		return nil, err
	}
	srcRef, err := ix.LocalRef(tt, src)
	if err != nil {
		return nil, err
	}
	dstRef, err := ix.LocalRef(tt, dst)
	if err != nil {
		return nil, err
	}

	res := &PairResult{
		TileType:   tileType,
		Source:     src,
		Sink:       dst,
		SourceName: ix.Name(srcRef),
		SinkName:   ix.Name(dstRef),
		Requires:   "false",
		Implies:    "false",
	}
	if srcRef.Site != dstRef.Site {
		return res, nil
	}

	st, _ := dev.SiteType(dev.TileTypes[tt].Sites[srcRef.Site])
	g, err := sitegraph.Build(st)
	if err != nil {
		return nil, err
	}
	base := ix.SiteBase(tt, srcRef.Site)
	from, to := sitegraph.NodeID(src-base), sitegraph.NodeID(dst-base)

	routes, stats, err := router.New(g, opts.Router).Enumerate(from, to)
	if err != nil {
		return nil, err
	}
	res.Truncated = stats.Truncated > 0
	for _, rt := range routes {
		res.Routes = append(res.Routes, router.Describe(g, rt))
	}

	conn, ok, err := constraints.NewBuilder(g.Domains(), opts.Constraints).Connection(from, to, routes)
	if err != nil {
		return nil, err
	}
	if ok {
		res.Requires = conn.Requires.Format(g.LiteralString)
		res.Implies = conn.Implies.Format(g.LiteralString)
	}
	return res, nil
}
