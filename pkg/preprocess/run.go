// Package preprocess runs the whole preprocessing of a device: every
// selected tile type is routed on a worker pool and its results are
// exported, with per-tile-type failure isolation.
package preprocess

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-siteroute/pkg/device"
	"github.com/dd0wney/cluso-siteroute/pkg/export"
	"github.com/dd0wney/cluso-siteroute/pkg/index"
	"github.com/dd0wney/cluso-siteroute/pkg/logging"
	"github.com/dd0wney/cluso-siteroute/pkg/metrics"
	"github.com/dd0wney/cluso-siteroute/pkg/parallel"
)

// Result is the outcome of a run. Tiles holds the processed tile types in
// device order; tile types that failed before routing finished are absent.
type Result struct {
	RunID string
	Index *index.Index
	Tiles []*TileResult
	// Artifacts lists the locations of every written output.
	Artifacts []string
}

// Tile returns the result of the named tile type.
func (r *Result) Tile(name string) (*TileResult, bool) {
	for _, t := range r.Tiles {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// Runner executes runs with a fixed configuration.
type Runner struct {
	cfg     Config
	logger  logging.Logger
	metrics *metrics.Registry
	json    *export.Exporter
	dot     *export.Exporter
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger. The default is logging.DefaultLogger().
func WithLogger(l logging.Logger) RunnerOption {
	return func(r *Runner) { r.logger = l }
}

// WithMetrics sets the metrics registry. The default is
// metrics.DefaultRegistry().
func WithMetrics(m *metrics.Registry) RunnerOption {
	return func(r *Runner) { r.metrics = m }
}

// WithSinks replaces the sinks derived from the configured prefixes. A nil
// sink keeps the configured one.
func WithSinks(json, dot export.Sink) RunnerOption {
	return func(r *Runner) {
		if json != nil {
			r.json.Sink = json
		}
		if dot != nil {
			r.dot.Sink = dot
		}
	}
}

// NewRunner validates cfg and opens the output sinks.
func NewRunner(ctx context.Context, cfg Config, opts ...RunnerOption) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Runner{
		cfg:     cfg,
		logger:  logging.DefaultLogger(),
		metrics: metrics.DefaultRegistry(),
	}

	var err error
	if r.json, err = newExporter(ctx, export.FormatJSON, cfg.JSON, cfg.S3); err != nil {
		return nil, err
	}
	if r.dot, err = newExporter(ctx, export.FormatDOT, cfg.DOT, cfg.S3); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func newExporter(ctx context.Context, format export.Format, out OutputConfig, s3 export.S3Options) (*export.Exporter, error) {
	e := &export.Exporter{Format: format, Selection: export.NewSelection(out.TileTypes...)}
	if !out.Enabled() {
		return e, nil
	}
	location, name := splitPrefix(out.Prefix)
	sink, err := export.OpenSink(ctx, location, s3)
	if err != nil {
		return nil, fmt.Errorf("%s output: %w", format, err)
	}
	e.Prefix = name
	e.Sink = sink
	return e, nil
}

// Run validates cfg and processes dev with it.
func Run(ctx context.Context, dev *device.Device, cfg Config, opts ...RunnerOption) (*Result, error) {
	r, err := NewRunner(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return r.Run(ctx, dev)
}

// selectTileTypes resolves the tile type selections against dev. Names the
// device does not have are fatal.
func (r *Runner) selectTileTypes(dev *device.Device) ([]int, error) {
	known := dev.TileTypeNames()
	var errs []error
	for _, sel := range []struct {
		what  string
		names []string
	}{
		{"tile type", r.cfg.TileTypes},
		{"json", r.cfg.JSON.TileTypes},
		{"dot", r.cfg.DOT.TileTypes},
	} {
		for _, name := range export.NewSelection(sel.names...).Unknown(known) {
			errs = append(errs, fmt.Errorf("%w: %s (%s selection)", ErrUnknownTileType, name, sel.what))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	sel := export.NewSelection(r.cfg.TileTypes...)
	var tts []int
	for i, name := range known {
		if sel.Empty() || sel.Contains(name) {
			tts = append(tts, i)
		}
	}
	return tts, nil
}

// Run processes every selected tile type of dev. Invalid selections abort
// before any work. A failing tile type is logged and reported in the
// returned *RunError; the others still complete and are exported.
func (r *Runner) Run(ctx context.Context, dev *device.Device) (*Result, error) {
	tts, err := r.selectTileTypes(dev)
	if err != nil {
		return nil, err
	}

	res := &Result{RunID: uuid.NewString(), Index: index.Assign(dev)}
	log := r.logger.With(logging.Component("preprocess"), logging.RunID(res.RunID))
	log.Info("run started",
		logging.String("device", dev.Name),
		logging.Count(len(tts)),
		logging.Int("workers", r.cfg.Workers()),
		logging.Int("pins", res.Index.Len()))
	timer := logging.StartTimer(log, "run finished")

	tiles := make([]*TileResult, len(tts))
	artifacts := make([][]string, len(tts))
	errs, err := parallel.ForEach(ctx, r.cfg.Workers(), len(tts), func(ctx context.Context, i int) error {
		r.metrics.WorkerStarted()
		defer r.metrics.WorkerDone()
		tile, locs, err := r.processTile(ctx, log, dev, res.Index, tts[i])
		tiles[i], artifacts[i] = tile, locs
		return err
	})
	if err != nil {
		return nil, err
	}

	var failed []*TileError
	for i, e := range errs {
		if tiles[i] != nil {
			res.Tiles = append(res.Tiles, tiles[i])
		}
		res.Artifacts = append(res.Artifacts, artifacts[i]...)
		if e == nil {
			continue
		}
		te := asTileError(dev.TileTypes[tts[i]].Name, e)
		if te.Stage == StagePanic {
			r.metrics.RecordTileType(te.TileType, "failed", 0, metrics.TileTypeStats{})
			log.Error("tile type panicked", logging.TileType(te.TileType), logging.Error(te.Cause))
		}
		failed = append(failed, te)
	}

	if r.cfg.MetricsFile != "" {
		if err := r.metrics.WriteTextfile(r.cfg.MetricsFile); err != nil {
			log.Warn("failed to write metrics", logging.Path(r.cfg.MetricsFile), logging.Error(err))
		}
	}

	timer.End(logging.Int("processed", len(res.Tiles)), logging.Int("failed", len(failed)))
	if len(failed) > 0 {
		return res, &RunError{Failed: failed, Total: len(tts)}
	}
	return res, nil
}

func asTileError(tileType string, err error) *TileError {
	var te *TileError
	if errors.As(err, &te) {
		return te
	}
	var pe *parallel.PanicError
	if errors.As(err, &pe) {
		return &TileError{TileType: tileType, Stage: StagePanic, Cause: err}
	}
	return &TileError{TileType: tileType, Stage: StageRoute, Cause: err}
}

// processTile routes and exports one tile type. The result is returned even
// when exporting fails.
func (r *Runner) processTile(ctx context.Context, log logging.Logger, dev *device.Device, ix *index.Index, tt int) (*TileResult, []string, error) {
	name := dev.TileTypes[tt].Name
	log = log.With(logging.TileType(name))

	timer := logging.StartTimer(log, "tile type processed")
	tile, err := ProcessTileType(dev, ix, tt, r.cfg.Options())
	if err != nil {
		timer.EndError(err)
		r.metrics.RecordTileType(name, "failed", timer.Elapsed(), metrics.TileTypeStats{})
		return nil, nil, &TileError{TileType: name, Stage: StageRoute, Cause: err}
	}
	for _, s := range tile.Sites {
		r.metrics.RecordSiteGraph(s.SiteType, s.Graph.NodeCount(), s.Graph.EdgeCount())
	}

	var locs []string
	var exportErrs []error
	t := tile.ExportTile(r.cfg.DebugHints)
	for _, e := range []*export.Exporter{r.json, r.dot} {
		loc, err := e.Export(ctx, t)
		if err != nil {
			exportErrs = append(exportErrs, err)
			continue
		}
		if loc != "" {
			locs = append(locs, loc)
			r.metrics.RecordArtifact(string(e.Format))
			log.Debug("artifact written", logging.Path(loc))
		}
	}

	sum := tile.Summary
	if err := errors.Join(exportErrs...); err != nil {
		timer.EndError(err)
		r.metrics.RecordTileType(name, "failed", tile.Duration, sum.MetricsStats())
		return tile, locs, &TileError{TileType: name, Stage: StageExport, Cause: err}
	}

	timer.End(
		logging.Int("pairs", sum.Pairs),
		logging.Int("routes", sum.Routes),
		logging.Int("steps", sum.Steps),
		logging.Int("truncated", sum.Truncated),
		logging.Int("out_of_site_sources", len(sum.OutOfSiteSources)),
		logging.Int("out_of_site_sinks", len(sum.OutOfSiteSinks)),
		logging.Int("clauses", sum.Formulas.Clauses))
	r.metrics.RecordTileType(name, "ok", tile.Duration, sum.MetricsStats())
	return tile, locs, nil
}
