package cmd

import (
	"fmt"

	"github.com/rohmanhakim/blocklist-tracker/internal/build"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of blocklist-tracker",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "blocklist-tracker %s (built %s)\n", build.FullVersion(), build.BuildTime)
	},
}
