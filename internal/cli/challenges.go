package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/whoamaiii/devxp/internal/daemon"
	"github.com/whoamaiii/devxp/internal/domain"
)

func init() {
	challengesCmd.PersistentFlags().StringVarP(&challengesUser, "user", "u", "", "user to show (defaults to config)")
	challengesCmd.AddCommand(challengesNewCmd)
	rootCmd.AddCommand(challengesCmd)
}

var challengesUser string

var challengesCmd = &cobra.Command{
	Use:   "challenges",
	Short: "List active challenges and completion bonuses",
	RunE:  runChallenges,
}

var challengesNewCmd = &cobra.Command{
	Use:   "new KIND",
	Short: "Generate a new daily or weekly challenge",
	Args:  cobra.ExactArgs(1),
	RunE:  runChallengesNew,
}

func runChallenges(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	board := d.ChallengeBoard(challengesUser)
	if len(board.Active) == 0 {
		fmt.Println("No active challenges. Run 'devxp challenges new daily' to get one.")
		return nil
	}

	now := time.Now()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKIND\tPROGRESS\tREWARD\tEXPIRES")
	for _, c := range board.Active {
		fmt.Fprintf(w, "%s\t%s\t%d/%d (%.0f%%)\t%d XP\t%s\n",
			c.Name, c.Kind, c.Progress, c.Goal, c.ProgressPct(), c.RewardXP, expiresIn(c.ExpiresAt, now))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if board.DailyBonus > 0 {
		fmt.Printf("\nDaily set complete: +%d XP bonus earned\n", board.DailyBonus)
	}
	if board.WeeklyBonus > 0 {
		fmt.Printf("Weekly set complete: +%d XP bonus earned\n", board.WeeklyBonus)
	}
	return nil
}

func runChallengesNew(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	var ch domain.Challenge
	switch args[0] {
	case "daily":
		ch, err = d.NewDailyChallenge(challengesUser)
	case "weekly":
		ch, err = d.NewWeeklyChallenge(challengesUser)
	default:
		return fmt.Errorf("unknown challenge kind %q (want daily or weekly)", args[0])
	}
	if err != nil {
		return err
	}

	fmt.Printf("New %s challenge: %s\n", ch.Kind, ch.Name)
	fmt.Printf("  %s\n", ch.Description)
	fmt.Printf("  Reward: %d XP, expires %s\n", ch.RewardXP, ch.ExpiresAt.Format("Mon 15:04"))
	return nil
}

// expiresIn renders the time left before a deadline, coarsely.
func expiresIn(deadline, now time.Time) string {
	left := deadline.Sub(now)
	switch {
	case left <= 0:
		return "expired"
	case left < time.Hour:
		return fmt.Sprintf("%dm", int(left.Minutes()))
	case left < 24*time.Hour:
		return fmt.Sprintf("%dh", int(left.Hours()))
	default:
		return fmt.Sprintf("%dd", int(left.Hours()/24))
	}
}
