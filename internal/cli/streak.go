package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/whoamaiii/devxp/internal/daemon"
)

func init() {
	streakCmd.Flags().StringVarP(&streakUser, "user", "u", "", "user to show (defaults to config)")
	rootCmd.AddCommand(streakCmd)
}

var streakUser string

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Show the consecutive-day activity streak",
	RunE:  runStreak,
}

func runStreak(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	st, err := d.StreakStatus(streakUser)
	if err != nil {
		return err
	}

	fmt.Printf("Streak:         %d days\n", st.Days)
	fmt.Printf("Longest:        %d days\n", st.Longest)
	if !st.LastActive.IsZero() {
		fmt.Printf("Last active:    %s\n", st.LastActive.Format("2006-01-02"))
	}
	if st.FreezeAvailable {
		fmt.Printf("Freeze:         available (bridges one missed day per week)\n")
	} else {
		fmt.Printf("Freeze:         spent this week\n")
	}
	if st.NextMilestone > 0 {
		fmt.Printf("Next milestone: %d days (+%d XP)\n", st.NextMilestone, st.MilestoneBonus)
	}
	if st.PendingBonus > 0 {
		fmt.Printf("Pending bonus:  +%d XP (pays with your next activity)\n", st.PendingBonus)
	}
	return nil
}
