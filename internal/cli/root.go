// Package cli implements the devxp command-line interface using Cobra.
// Each subcommand is a thin client over the daemon: record feeds the XP
// pipeline, the read commands print progression state, serve runs the API.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/whoamaiii/devxp/internal/daemon"
)

var rootCmd = &cobra.Command{
	Use:   "devxp",
	Short: "devxp turns developer activity into XP, levels, and achievements",
	Long: `devxp gamifies the terminal. Commits, test runs, deploys, and shell
commands earn XP; levels, streaks, achievements, and time-boxed challenges
keep score. Hook it into git and your shell, then check 'devxp status'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version
	daemon.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
