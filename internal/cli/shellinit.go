package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/whoamaiii/devxp/internal/hooks"
)

func init() {
	rootCmd.AddCommand(shellinitCmd)
}

var shellinitCmd = &cobra.Command{
	Use:   "shellinit SHELL",
	Short: "Print the shell integration snippet (bash, zsh, or fish)",
	Long: `Print the preexec snippet that records terminal commands as activity.

  bash:  eval "$(devxp shellinit bash)"   in ~/.bashrc
  zsh:   eval "$(devxp shellinit zsh)"    in ~/.zshrc
  fish:  devxp shellinit fish | source    in config.fish`,
	Args: cobra.ExactArgs(1),
	RunE: runShellinit,
}

func runShellinit(cmd *cobra.Command, args []string) error {
	snippet, err := hooks.RenderShellInit(args[0])
	if err != nil {
		return err
	}
	fmt.Print(snippet)
	return nil
}
