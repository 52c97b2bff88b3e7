package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/whoamaiii/devxp/internal/daemon"
	"github.com/whoamaiii/devxp/internal/watch"
)

func init() {
	watchCmd.Flags().StringVarP(&watchUser, "user", "u", "", "user to credit (defaults to config)")
	rootCmd.AddCommand(watchCmd)
}

var watchUser string

var watchCmd = &cobra.Command{
	Use:   "watch [PATH...]",
	Short: "Watch directories and record new source files as activity",
	Long: `Watch the given paths (or the configured watch.paths, or the current
directory) and record a file_created activity for every new source file.
Runs until interrupted.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	paths := args
	if len(paths) == 0 {
		paths = d.Config.Watch.Paths
	}
	if len(paths) == 0 {
		paths = []string{"."}
	}

	w, err := watch.New(watch.Config{
		UserID:   watchUser,
		Debounce: d.Config.DebounceInterval(),
	})
	if err != nil {
		return err
	}
	defer w.Close()

	for _, p := range paths {
		if err := w.AddPath(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		fmt.Printf("watching %s\n", p)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go w.Run(ctx)

	for req := range w.Requests() {
		out, err := d.RecordActivity(req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "record: %v\n", err)
			continue
		}
		fmt.Printf("+%d XP  file_created  (%d lines)\n", out.Result.FinalXP, req.Context.Lines)
	}

	fmt.Println("watch stopped")
	return nil
}
