package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/whoamaiii/devxp/internal/daemon"
	"github.com/whoamaiii/devxp/internal/domain"
)

func init() {
	recordCmd.Flags().StringVarP(&recordDifficulty, "difficulty", "d", "", "easy, medium, hard, or expert")
	recordCmd.Flags().IntVarP(&recordQuality, "quality", "q", -1, "quality score 0-100 (e.g. test coverage)")
	recordCmd.Flags().BoolVar(&recordFirstTime, "first-time", false, "first time doing this activity")
	recordCmd.Flags().IntVar(&recordLines, "lines", 0, "lines touched")
	recordCmd.Flags().StringVarP(&recordUser, "user", "u", "", "user to credit (defaults to config)")
	recordCmd.Flags().BoolVar(&recordQuiet, "quiet", false, "suppress output, for hooks")
	rootCmd.AddCommand(recordCmd)
}

var (
	recordDifficulty string
	recordQuality    int
	recordFirstTime  bool
	recordLines      int
	recordUser       string
	recordQuiet      bool
)

var recordCmd = &cobra.Command{
	Use:   "record TYPE",
	Short: "Record a developer activity and earn XP",
	Long: `Record one activity occurrence. Known types carry configured base XP
(git_commit, git_push, git_branch, git_merge, test_run, test_pass, deploy,
command_run, file_created, code_review); unknown types earn the default.`,
	Args: cobra.ExactArgs(1),
	RunE: runRecord,
}

func runRecord(cmd *cobra.Command, args []string) error {
	req := domain.RecordRequest{
		UserID: recordUser,
		Type:   domain.ActivityType(args[0]),
		Context: domain.ActivityContext{
			FirstTime: recordFirstTime,
			Lines:     recordLines,
		},
	}
	if recordDifficulty != "" {
		diff, err := parseDifficulty(recordDifficulty)
		if err != nil {
			return err
		}
		req.Context.Difficulty = diff
	}
	if recordQuality >= 0 {
		req.Context.Quality = recordQuality
		req.Context.Scored = true
	}

	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	out, err := d.RecordActivity(req)
	if err != nil {
		return err
	}
	if recordQuiet {
		return nil
	}

	res := out.Result
	fmt.Printf("+%d XP  %s  (x%.2f)\n", res.FinalXP, res.Activity, res.TotalMultiplier)
	for _, ev := range out.Events {
		line := ev.Title
		if ev.Body != "" {
			line = ev.Body
		}
		if ev.XP > 0 {
			fmt.Printf("  [%s] %s  +%d XP\n", eventLabel(ev.Type), line, ev.XP)
		} else {
			fmt.Printf("  [%s] %s\n", eventLabel(ev.Type), line)
		}
	}
	fmt.Printf("Level %d  %s XP total\n", out.Profile.Level, comma(out.Profile.TotalXP))
	return nil
}
