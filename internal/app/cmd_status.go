package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"salesintel/internal/storage/sqlite"
)

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show stored analysis stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := buildDeps()
			if err != nil {
				return err
			}
			defer d.Close()

			ids, err := d.store.KnownTranscriptIDs()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Database: %s\n", d.cfg.DBPath)
			fmt.Fprintf(out, "Analyzed calls: %d\n", len(ids))

			recent, err := d.store.Query(sqlite.Filters{Limit: 5})
			if err != nil {
				return err
			}
			if len(recent) > 0 {
				fmt.Fprintln(out, "Most recent:")
				for _, r := range recent {
					fmt.Fprintf(out, "  %s  %-40s score %d/100\n",
						r.Date.Format("2006-01-02"), r.Title, r.OverallScore)
				}
			}
			return nil
		},
	}
}
