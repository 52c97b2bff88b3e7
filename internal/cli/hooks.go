package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/whoamaiii/devxp/internal/hooks"
)

func init() {
	hooksInstallCmd.Flags().StringVar(&hooksDir, "dir", ".", "repository to install into")
	hooksCmd.AddCommand(hooksInstallCmd)
	hooksCmd.AddCommand(hooksPrintCmd)
	rootCmd.AddCommand(hooksCmd)
}

var hooksDir string

var hooksCmd = &cobra.Command{
	Use:   "hooks",
	Short: "Manage the git hooks that record commits, merges, and branches",
}

var hooksInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install devxp hooks into the repository's .git/hooks",
	Long: `Install the post-commit, post-merge, and post-checkout hooks.
Existing hooks are preserved and chained, not overwritten.`,
	RunE: runHooksInstall,
}

var hooksPrintCmd = &cobra.Command{
	Use:   "print",
	Short: "Print the hook scripts without installing them",
	RunE:  runHooksPrint,
}

func runHooksInstall(cmd *cobra.Command, args []string) error {
	gitDir, err := hooks.FindGitDir(hooksDir)
	if err != nil {
		return err
	}

	written, err := hooks.Install(gitDir)
	if err != nil {
		return err
	}
	for _, path := range written {
		fmt.Printf("installed %s\n", path)
	}
	return nil
}

func runHooksPrint(cmd *cobra.Command, args []string) error {
	for i, h := range hooks.GitHooks {
		script, err := hooks.RenderGitHook(h)
		if err != nil {
			return err
		}
		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("# .git/hooks/%s\n%s", h.Name, script)
	}
	return nil
}
