package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-siteroute/pkg/constraints"
	"github.com/dd0wney/cluso-siteroute/pkg/index"
	"github.com/dd0wney/cluso-siteroute/pkg/preprocess"
	"github.com/dd0wney/cluso-siteroute/pkg/router"
)

func newPairCmd() *cobra.Command {
	var (
		tileType  string
		maxRoutes int
		noOpt     bool
	)
	cmd := &cobra.Command{
		Use:   `pair <device> "<pin> -> <pin>"`,
		Short: "Print every route between two pins of a tile type",
		Long: `Print every route between two pins of a tile type, with the state each
route requires and implies and the resulting connection formulas.

Pins are tile-local indices or SITE[i]/BEL.PIN; the instance may be left out
when the site type occurs once in the tile type.`,
		Example: `  siteroute pair device.yaml --tile-type CLB "0 -> 10"
  siteroute pair device.yaml --tile-type IOI "IOB/PAD.P -> IOB/ILOGIC.D"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dev, err := loadDevice(args[0])
			if err != nil {
				return err
			}
			opts := preprocess.Options{
				Router:      router.Options{MaxRoutesPerPair: maxRoutes},
				Constraints: constraints.Options{SkipOptimization: noOpt},
			}
			res, err := preprocess.QueryPair(dev, index.Assign(dev), tileType, args[1], opts)
			if err != nil {
				return err
			}

			st := newStyles(cmd)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, st.title.Render(fmt.Sprintf("%s: %s (%d) -> %s (%d)",
				res.TileType, res.SourceName, res.Source, res.SinkName, res.Sink)))
			if !res.Routable() {
				fmt.Fprintln(out, st.dim.Render("not routable"))
				return nil
			}
			for i, rt := range res.Routes {
				fmt.Fprintf(out, "%3d  %s\n", i, rt)
			}
			if res.Truncated {
				fmt.Fprintln(out, st.dim.Render(fmt.Sprintf("stopped after %d routes", len(res.Routes))))
			}
			fmt.Fprintf(out, "%s %s\n", st.label.Render("requires:"), res.Requires)
			fmt.Fprintf(out, "%s %s\n", st.label.Render("implies: "), res.Implies)
			return nil
		},
	}
	cmd.Flags().StringVar(&tileType, "tile-type", "", "tile type holding both pins")
	cmd.Flags().IntVar(&maxRoutes, "max-routes", 0, "maximum routes to enumerate (0 is unlimited)")
	cmd.Flags().BoolVar(&noOpt, "no-formula-opt", false, "print formulas without optimizing them")
	_ = cmd.MarkFlagRequired("tile-type")
	return cmd
}
