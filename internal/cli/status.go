package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/whoamaiii/devxp/internal/daemon"
)

func init() {
	statusCmd.Flags().StringVarP(&statusUser, "user", "u", "", "user to show (defaults to config)")
	rootCmd.AddCommand(statusCmd)
}

var statusUser string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show level, XP, streak, and achievement standing at a glance",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	level, err := d.LevelStatus(statusUser)
	if err != nil {
		return err
	}
	streak, err := d.StreakStatus(statusUser)
	if err != nil {
		return err
	}
	stats := d.AchievementStats(statusUser)
	board := d.ChallengeBoard(statusUser)

	fmt.Printf("User:          %s\n", level.UserID)
	fmt.Printf("Level:         %d of %d\n", level.Level, level.MaxLevel)
	fmt.Printf("  %s\n", renderBar(level.Percent))
	fmt.Printf("Total XP:      %s\n", comma(level.TotalXP))
	if level.XPToNext > 0 {
		fmt.Printf("To next level: %s XP\n", comma(level.XPToNext))
	}

	fmt.Printf("Streak:        %d days (longest %d)\n", streak.Days, streak.Longest)
	if streak.NextMilestone > 0 {
		fmt.Printf("Milestone:     %d days (+%d XP)\n", streak.NextMilestone, streak.MilestoneBonus)
	}
	fmt.Printf("Achievements:  %d/%d unlocked (%.1f%%)\n", stats.Unlocked, stats.Total, stats.Percent)

	fmt.Printf("Challenges:    %d active\n", len(board.Active))
	if board.DailyBonus > 0 {
		fmt.Printf("Daily set:     complete (+%d XP)\n", board.DailyBonus)
	}
	if board.WeeklyBonus > 0 {
		fmt.Printf("Weekly set:    complete (+%d XP)\n", board.WeeklyBonus)
	}

	totals, err := d.DB.ActivityTotals(level.UserID, time.Now().AddDate(0, 0, -7))
	if err != nil {
		return err
	}
	if len(totals) > 0 {
		var week int64
		for _, xp := range totals {
			week += xp
		}
		fmt.Printf("Past 7 days:   %s XP\n", comma(week))
		fmt.Printf("  %s\n", summarizeTotals(totals))
	}

	if streak.LastActive.IsZero() {
		fmt.Printf("Last active:   never (record something!)\n")
	} else {
		fmt.Printf("Last active:   %s\n", timeAgo(streak.LastActive, time.Now()))
	}
	return nil
}
