package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-siteroute/pkg/export"
	"github.com/dd0wney/cluso-siteroute/pkg/index"
	"github.com/dd0wney/cluso-siteroute/pkg/preprocess"
)

func newIndexCmd() *cobra.Command {
	var tileTypes []string
	cmd := &cobra.Command{
		Use:   "index <device>",
		Short: "Print the BEL pin index of every tile type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dev, err := loadDevice(args[0])
			if err != nil {
				return err
			}
			sel := export.NewSelection(tileTypes...)
			if unknown := sel.Unknown(dev.TileTypeNames()); len(unknown) > 0 {
				return fmt.Errorf("%w: %v", preprocess.ErrUnknownTileType, unknown)
			}

			ix := index.Assign(dev)
			st := newStyles(cmd)
			out := cmd.OutOrStdout()
			for tt, t := range dev.TileTypes {
				if !sel.Empty() && !sel.Contains(t.Name) {
					continue
				}
				base, count, err := ix.TileRange(tt)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, st.title.Render(fmt.Sprintf("%s (%d pins, global %d..%d)", t.Name, count, base, base+count-1)))
				for local := 0; local < count; local++ {
					ref, err := ix.LocalRef(tt, local)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%6d %6d  %s\n", base+local, local, ix.Name(ref))
				}
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&tileTypes, "tile-type", nil, `tile types to print (repeatable, ":all")`)
	return cmd
}
