package report

import (
	"encoding/json"
	"fmt"
	"time"

	"salesintel/internal/aggregate"
)

// WriteJSON dumps the raw aggregate report for downstream tooling.
func WriteJSON(r *aggregate.Report, outputDir string, generatedAt time.Time) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding report: %w", err)
	}
	return WriteReportFile(string(data), outputDir, "sales_insights", "json", generatedAt)
}
