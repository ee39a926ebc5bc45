package commands

import (
	"github.com/spf13/cobra"
)

var cfgFile string

// NewRoot builds the command tree. Without a subcommand it runs watch.
func NewRoot() *cobra.Command {
	opts := &watchOptions{}

	root := &cobra.Command{
		Use:   "aura-radar",
		Short: "Terminal radar for the AURA threat detection backend",
		Long: "aura-radar polls an AURA backend and shows live connections as arcs on a rotating " +
			"ASCII globe, with alert, log, block-list and file integrity panels.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, opts)
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "TOML config file path")
	opts.bind(root)

	root.AddCommand(
		newWatchCmd(),
		newSnapshotCmd(),
		newDemoBackendCmd(),
		newVersionCmd(),
	)

	return root
}
