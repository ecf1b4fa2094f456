package main

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-siteroute/pkg/device"
	"github.com/dd0wney/cluso-siteroute/pkg/logging"
)

const version = "0.3.0"

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "siteroute",
		Short: "Intra-site routability preprocessor for FPGA devices",
		Long: `siteroute enumerates every route between BEL pins inside the sites of an
FPGA device and records, per tile type, the configuration state each pin
pair requires and implies.

Examples:
  siteroute run device.yaml --json :all --json-prefix out/
  siteroute run device.yaml.gz --tile-type CLB --dot CLB --debug-hints
  siteroute pair device.yaml --tile-type CLB "SLICE[0]/IN.P -> SLICE[0]/OUT.P"
  siteroute index device.yaml`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			name := logLevel
			if env := os.Getenv("LOG_LEVEL"); env != "" && !cmd.Flags().Changed("log-level") {
				name = env
			}
			level, err := logging.ParseLevel(name)
			if err != nil {
				return err
			}
			logging.SetDefaultLogger(logging.NewJSONLogger(cmd.ErrOrStderr(), level))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(newRunCmd(), newPairCmd(), newIndexCmd())
	return root
}

// loadDevice reads and validates the device description at path.
func loadDevice(path string) (*device.Device, error) {
	timer := logging.StartTimer(logging.DefaultLogger(), "device loaded", logging.Path(path))
	dev, err := device.Load(path)
	if err != nil {
		return nil, err
	}
	timer.End(
		logging.String("device", dev.Name),
		logging.Int("site_types", len(dev.SiteTypes)),
		logging.Int("tile_types", len(dev.TileTypes)))
	return dev, nil
}

// styles renders headings for terminal output; plain text when the output
// is not a terminal.
type styles struct {
	title lipgloss.Style
	label lipgloss.Style
	dim   lipgloss.Style
}

func newStyles(cmd *cobra.Command) styles {
	r := lipgloss.NewRenderer(cmd.OutOrStdout())
	return styles{
		title: r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		label: r.NewStyle().Bold(true),
		dim:   r.NewStyle().Faint(true),
	}
}
