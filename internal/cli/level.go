package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/whoamaiii/devxp/internal/daemon"
)

func init() {
	levelCmd.Flags().StringVarP(&levelUser, "user", "u", "", "user to show (defaults to config)")
	rootCmd.AddCommand(levelCmd)
}

var levelUser string

var levelCmd = &cobra.Command{
	Use:   "level",
	Short: "Show level progression detail",
	RunE:  runLevel,
}

func runLevel(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	ls, err := d.LevelStatus(levelUser)
	if err != nil {
		return err
	}

	fmt.Printf("Level %d of %d\n", ls.Level, ls.MaxLevel)
	fmt.Printf("  %s\n", renderBar(ls.Percent))
	fmt.Printf("Total XP:   %s\n", comma(ls.TotalXP))
	if ls.XPToNext > 0 {
		fmt.Printf("To level %d: %s XP\n", ls.Level+1, comma(ls.XPToNext))
	} else {
		fmt.Println("Level cap reached.")
	}
	return nil
}
