package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"salesintel/internal/aggregate"
	"salesintel/internal/analyze"
	"salesintel/internal/integrations/llm"
	"salesintel/internal/integrations/slackdeal"
	"salesintel/internal/report"
	"salesintel/internal/storage/sqlite"
)

func newReportCommand() *cobra.Command {
	var (
		fromStr     string
		toStr       string
		format      string
		topN        int
		withSummary bool
		withDeals   bool
		upload      bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Aggregate stored analysis into a report file",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case "md", "xlsx", "json":
			default:
				return fmt.Errorf("unsupported --format %q (md, xlsx, json)", format)
			}

			d, err := buildDeps()
			if err != nil {
				return err
			}
			defer d.Close()

			start, end, err := parseRange(fromStr, toStr, d.cfg.Location)
			if err != nil {
				return err
			}

			records, err := d.store.Query(sqlite.Filters{StartDate: start, EndDate: end})
			if err != nil {
				return fmt.Errorf("loading records: %w", err)
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No analyzed calls in the selected range.")
				return nil
			}

			result := aggregate.Build(records)
			agg := &result
			ctx := context.Background()

			var dealStatuses map[string]string
			if withDeals {
				if d.slack.Disabled() {
					return fmt.Errorf("--deals requires slack_bot_token and deals_channel_id to be configured")
				}
				dealStatuses = lookupDealStatuses(ctx, d, records)
			}

			var path string
			switch format {
			case "md":
				execSummary := ""
				if withSummary {
					execSummary, err = generateSummary(ctx, d, agg)
					if err != nil {
						return err
					}
				}
				md := report.BuildMarkdown(agg, report.Options{TopN: topN, ExecutiveSummary: execSummary, DealStatuses: dealStatuses})
				path, err = report.WriteReportFile(md, d.cfg.ExportDir, "sales_insights", "md", agg.GeneratedAt)
			case "xlsx":
				path, err = report.WriteExcel(agg, d.cfg.ExportDir, agg.GeneratedAt)
			case "json":
				path, err = report.WriteJSON(agg, d.cfg.ExportDir, agg.GeneratedAt)
			}
			if err != nil {
				return fmt.Errorf("writing report: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written: %s (%d calls)\n", path, agg.CallsAnalyzed)

			if upload {
				info, err := os.Stat(path)
				if err != nil {
					return err
				}
				title := fmt.Sprintf("Sales insights %s", agg.GeneratedAt.Format("2006-01-02"))
				if err := d.slack.UploadReport(ctx, path, title, int(info.Size())); err != nil {
					return fmt.Errorf("uploading report to Slack: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Uploaded to Slack.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fromStr, "from", "", "Start date (YYYY-MM-DD, default 30 days ago)")
	cmd.Flags().StringVar(&toStr, "to", "", "End date (YYYY-MM-DD, default now)")
	cmd.Flags().StringVar(&format, "format", "md", "Output format: md, xlsx, or json")
	cmd.Flags().IntVar(&topN, "top", 0, "Limit pain categories to the top N (0 = all)")
	cmd.Flags().BoolVar(&withSummary, "summary", false, "Prepend an LLM executive summary (needs anthropic_api_key)")
	cmd.Flags().BoolVar(&withDeals, "deals", false, "Annotate calls with deal status from the Slack deals channel (md only)")
	cmd.Flags().BoolVar(&upload, "upload", false, "Upload the report to the Slack report channel")
	return cmd
}

// lookupDealStatuses resolves a deal stage per analyzed call. Calls the
// deals channel never mentions are left out of the map.
func lookupDealStatuses(ctx context.Context, d *deps, records []analyze.AnalysisRecord) map[string]string {
	statuses := make(map[string]string, len(records))
	for _, rec := range records {
		status := d.slack.LookupDealStatus(ctx, rec.Prospect.Name, rec.Prospect.Website, rec.Prospect.Company)
		if status != slackdeal.StatusNoRecord {
			statuses[rec.TranscriptID] = string(status)
		}
	}
	return statuses
}

func generateSummary(ctx context.Context, d *deps, agg *aggregate.Report) (string, error) {
	text, usage, err := d.summarizer.Summarize(ctx, agg)
	if errors.Is(err, llm.ErrNotConfigured) {
		return "", fmt.Errorf("--summary requires anthropic_api_key to be configured")
	}
	if err != nil {
		return "", fmt.Errorf("generating executive summary: %w", err)
	}
	d.log.Component("report").WithField("tokens_out", usage.OutputTokens).Info("executive summary generated")
	return text, nil
}
