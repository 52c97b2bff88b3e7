package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/whoamaiii/devxp/internal/daemon"
)

func init() {
	eventsCmd.Flags().IntVarP(&eventsLimit, "limit", "n", 20, "number of rows")
	eventsCmd.Flags().StringVarP(&eventsUser, "user", "u", "", "user to show (defaults to config)")
	rootCmd.AddCommand(eventsCmd)
}

var (
	eventsLimit int
	eventsUser  string
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show recent unlocks, level ups, and milestones",
	RunE:  runEvents,
}

func runEvents(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	events, err := d.RecentEvents(eventsUser, eventsLimit)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Println("No events yet.")
		return nil
	}

	now := time.Now()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tTYPE\tWHAT\tXP")
	for _, ev := range events {
		xp := ""
		if ev.XP > 0 {
			xp = fmt.Sprintf("+%d", ev.XP)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			timeAgo(ev.At, now), eventLabel(ev.Type), ev.Title, xp)
	}
	return w.Flush()
}
