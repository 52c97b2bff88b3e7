package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/whoamaiii/devxp/internal/daemon"
)

func init() {
	achievementsCmd.Flags().BoolVar(&achievementsAll, "all", false, "include hidden achievements")
	achievementsCmd.Flags().StringVarP(&achievementsUser, "user", "u", "", "user to show (defaults to config)")
	rootCmd.AddCommand(achievementsCmd)
}

var (
	achievementsAll  bool
	achievementsUser string
)

var achievementsCmd = &cobra.Command{
	Use:     "achievements",
	Aliases: []string{"ach"},
	Short:   "List achievements and unlock progress",
	RunE:    runAchievements,
}

func runAchievements(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	views := d.Achievements(achievementsUser, achievementsAll)
	stats := d.AchievementStats(achievementsUser)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCATEGORY\tPROGRESS\tREWARD\tSTATUS")
	for _, v := range views {
		status := ""
		if v.State.Unlocked {
			status = "unlocked " + v.State.UnlockedAt.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%s\t%s\t%d/%d\t%d XP\t%s\n",
			v.Name, v.Category, v.State.Progress, v.Goal, v.RewardXP, status)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d/%d unlocked (%.1f%%)\n", stats.Unlocked, stats.Total, stats.Percent)
	for _, near := range stats.Nearest {
		fmt.Printf("  almost there: %s (%d/%d)\n", near.Name, near.Progress, near.Goal)
	}
	return nil
}
