package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-siteroute/pkg/logging"
	"github.com/dd0wney/cluso-siteroute/pkg/preprocess"
)

type runOptions struct {
	configFile  string
	tileTypes   []string
	threads     int
	json        []string
	jsonPrefix  string
	dot         []string
	dotPrefix   string
	noFormulaOp bool
	debugHints  bool
	verify      bool
	maxRoutes   int
	metricsFile string
}

// config layers the config file and the flags that were set over the
// defaults.
func (o *runOptions) config(changed func(string) bool) (preprocess.Config, error) {
	cfg := preprocess.DefaultConfig()
	if o.configFile != "" {
		if err := preprocess.LoadConfigFile(o.configFile, &cfg); err != nil {
			return cfg, err
		}
	}
	if changed("tile-type") {
		cfg.TileTypes = o.tileTypes
	}
	if changed("threads") {
		cfg.Threads = o.threads
	}
	if changed("json") {
		cfg.JSON.TileTypes = o.json
	}
	if changed("json-prefix") {
		cfg.JSON.Prefix = o.jsonPrefix
	}
	if changed("dot") {
		cfg.DOT.TileTypes = o.dot
	}
	if changed("dot-prefix") {
		cfg.DOT.Prefix = o.dotPrefix
	}
	if changed("no-formula-opt") {
		cfg.OptimizeFormulas = !o.noFormulaOp
	}
	if changed("debug-hints") {
		cfg.DebugHints = o.debugHints
	}
	if changed("verify-formulas") {
		cfg.VerifyFormulas = o.verify
	}
	if changed("max-routes") {
		cfg.MaxRoutesPerPair = o.maxRoutes
	}
	if changed("metrics-file") {
		cfg.MetricsFile = o.metricsFile
	}
	return cfg, cfg.Validate()
}

func newRunCmd() *cobra.Command {
	o := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run <device>",
		Short: "Route every selected tile type and write the results",
		Long: `Route every selected tile type and write the results.

Tile type selections accept ":all". Output prefixes may be local paths
("out/route_") or S3 locations ("s3://bucket/run/").`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.config(cmd.Flags().Changed)
			if err != nil {
				return err
			}
			dev, err := loadDevice(args[0])
			if err != nil {
				return err
			}

			res, err := preprocess.Run(cmd.Context(), dev, cfg)
			if res != nil {
				for _, loc := range res.Artifacts {
					fmt.Fprintln(cmd.OutOrStdout(), loc)
				}
			}
			if err != nil {
				logging.DefaultLogger().Error("run failed", logging.Error(err))
			}
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.configFile, "config", "", "YAML config file; flags override its values")
	f.StringSliceVar(&o.tileTypes, "tile-type", nil, `tile types to process (repeatable, ":all" for every tile type)`)
	f.IntVar(&o.threads, "threads", 0, "worker count (0 uses every CPU)")
	f.StringSliceVar(&o.json, "json", nil, `tile types to write as JSON (repeatable, ":all")`)
	f.StringVar(&o.jsonPrefix, "json-prefix", "", "prefix of JSON output files")
	f.StringSliceVar(&o.dot, "dot", nil, `tile types to write as DOT graphs (repeatable, ":all")`)
	f.StringVar(&o.dotPrefix, "dot-prefix", "", "prefix of DOT output files")
	f.BoolVar(&o.noFormulaOp, "no-formula-opt", false, "write formulas without optimizing them")
	f.BoolVar(&o.debugHints, "debug-hints", false, "write state names instead of ids in JSON")
	f.BoolVar(&o.verify, "verify-formulas", false, "check every optimized formula against its original")
	f.IntVar(&o.maxRoutes, "max-routes", 0, "maximum routes kept per pin pair, also bounding the search (0 is unlimited)")
	f.StringVar(&o.metricsFile, "metrics-file", "", "write run metrics in Prometheus text format")
	return cmd
}
