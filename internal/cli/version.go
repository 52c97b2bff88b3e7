package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/whoamaiii/devxp/internal/daemon"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the devxp version and data directory",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("devxp version %s\n", rootCmd.Version)
		fmt.Printf("data: %s\n", daemon.Home())
	},
}
