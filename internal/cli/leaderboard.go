package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/whoamaiii/devxp/internal/daemon"
)

func init() {
	leaderboardCmd.Flags().IntVarP(&leaderboardLimit, "limit", "n", 10, "number of rows")
	rootCmd.AddCommand(leaderboardCmd)
}

var leaderboardLimit int

var leaderboardCmd = &cobra.Command{
	Use:     "leaderboard",
	Aliases: []string{"top"},
	Short:   "Show the local XP leaderboard",
	RunE:    runLeaderboard,
}

func runLeaderboard(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	entries, err := d.Leaderboard(leaderboardLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No users yet. Run 'devxp record git_commit' to get on the board.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tUSER\tLEVEL\tXP\tSTREAK")
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%d\n",
			e.Rank, e.UserID, e.Level, comma(e.TotalXP), e.StreakDays)
	}
	return w.Flush()
}
