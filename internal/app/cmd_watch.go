package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"salesintel/internal/run"
)

func newWatchCommand() *cobra.Command {
	var runNow bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run as a daemon, analyzing new transcripts on a schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := buildDeps()
			if err != nil {
				return err
			}
			defer d.Close()

			if d.cfg.AnalysisSchedule == "" && !runNow {
				return fmt.Errorf("analysis_schedule is not configured; set it or pass --now")
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sched := run.NewScheduler(d.runner, d.source, d.store, d.cfg.Location, d.log)
			if !d.slack.Disabled() {
				sched.Notifier = d.slack
			}

			if runNow {
				sched.RunOnce(ctx)
			}
			if d.cfg.AnalysisSchedule != "" {
				if err := sched.Start(ctx, d.cfg.AnalysisSchedule); err != nil {
					return fmt.Errorf("invalid analysis_schedule: %w", err)
				}
				<-ctx.Done()
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&runNow, "now", false, "Run one pass immediately before scheduling")
	return cmd
}
