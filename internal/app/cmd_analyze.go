package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"salesintel/internal/run"
)

const dateLayout = "2006-01-02"

func newAnalyzeCommand() *cobra.Command {
	var (
		fromStr   string
		toStr     string
		reanalyze bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Fetch and analyze call transcripts in a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := buildDeps()
			if err != nil {
				return err
			}
			defer d.Close()

			start, end, err := parseRange(fromStr, toStr, d.cfg.Location)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			result, err := d.runner.Start(ctx, run.Params{Start: start, End: end, Reanalyze: reanalyze})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Run complete: %s\n", result.Summary())
			for _, e := range result.Errors {
				fmt.Fprintf(cmd.OutOrStdout(), "  failed: %s\n", e)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fromStr, "from", "", "Start date (YYYY-MM-DD, default 30 days ago)")
	cmd.Flags().StringVar(&toStr, "to", "", "End date (YYYY-MM-DD, default now)")
	cmd.Flags().BoolVar(&reanalyze, "reanalyze", false, "Replace existing records in the range")
	return cmd
}

// parseRange resolves the flag pair into a concrete window. Dates are
// interpreted in the configured timezone; the end date is inclusive.
func parseRange(fromStr, toStr string, loc *time.Location) (time.Time, time.Time, error) {
	now := time.Now().In(loc)
	start := now.AddDate(0, 0, -30)
	end := now

	if fromStr != "" {
		t, err := time.ParseInLocation(dateLayout, fromStr, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from date %q: %w", fromStr, err)
		}
		start = t
	}
	if toStr != "" {
		t, err := time.ParseInLocation(dateLayout, toStr, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to date %q: %w", toStr, err)
		}
		end = t.AddDate(0, 0, 1)
	}
	if !start.Before(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("--from %s is not before --to %s", fromStr, toStr)
	}
	return start, end, nil
}
