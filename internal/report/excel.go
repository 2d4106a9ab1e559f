package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"salesintel/internal/aggregate"
)

const (
	sheetOverview = "Overview"
	sheetPain     = "Pain Points"
	sheetLanguage = "Language Assets"
	sheetDFY      = "DFY"
	sheetCalls    = "Calls"
)

// WriteExcel renders the report as a workbook under outputDir and returns
// the file path.
func WriteExcel(r *aggregate.Report, outputDir string, generatedAt time.Time) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetOverview)
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return "", fmt.Errorf("creating header style: %w", err)
	}

	if err := writeOverviewSheet(f, r, headerStyle); err != nil {
		return "", err
	}
	if err := writePainSheet(f, r, headerStyle); err != nil {
		return "", err
	}
	if err := writeLanguageSheet(f, r, headerStyle); err != nil {
		return "", err
	}
	if err := writeDFYSheet(f, r, headerStyle); err != nil {
		return "", err
	}
	if err := writeCallsSheet(f, r, headerStyle); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("sales_insights_%s.xlsx", generatedAt.Format("20060102_150405"))
	path := filepath.Join(outputDir, filename)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("saving workbook: %w", err)
	}
	return path, nil
}

func writeOverviewSheet(f *excelize.File, r *aggregate.Report, headerStyle int) error {
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Generated", r.GeneratedAt.Format("2006-01-02 15:04")},
		{"Calls analyzed", r.CallsAnalyzed},
		{"Pain points", r.TotalPain},
		{"DFY mentions", r.DFY.Mentioned},
		{"Avoidable DFY rate (%)", r.DFY.AvoidableRate},
		{"Business emails", r.LeadQuality.BusinessEmails},
		{"Generic emails", r.LeadQuality.GenericEmails},
		{"Prospects with website", r.LeadQuality.WithWebsite},
	}
	if err := writeRows(f, sheetOverview, rows, headerStyle); err != nil {
		return err
	}
	return f.SetColWidth(sheetOverview, "A", "A", 26)
}

func writePainSheet(f *excelize.File, r *aggregate.Report, headerStyle int) error {
	if _, err := f.NewSheet(sheetPain); err != nil {
		return err
	}
	rows := [][]interface{}{
		{"Category", "Urgency", "Intensity", "Quote", "Prompted By", "Prospect", "Call", "Date"},
	}
	for _, g := range r.PainGroups {
		for _, q := range g.Quotes {
			rows = append(rows, []interface{}{
				g.Category, string(q.Urgency), string(q.Intensity), q.Quote,
				q.Context, q.ProspectName, q.CallTitle, q.Date.Format("2006-01-02"),
			})
		}
	}
	if err := writeRows(f, sheetPain, rows, headerStyle); err != nil {
		return err
	}
	return f.SetColWidth(sheetPain, "D", "E", 60)
}

func writeLanguageSheet(f *excelize.File, r *aggregate.Report, headerStyle int) error {
	if _, err := f.NewSheet(sheetLanguage); err != nil {
		return err
	}
	rows := [][]interface{}{{"Type", "Phrase", "Context", "Prospect"}}
	for _, g := range r.Assets {
		for _, ph := range g.Phrases {
			rows = append(rows, []interface{}{string(g.Type), ph.Phrase, ph.Context, ph.ProspectName})
		}
	}
	if err := writeRows(f, sheetLanguage, rows, headerStyle); err != nil {
		return err
	}
	return f.SetColWidth(sheetLanguage, "B", "C", 60)
}

func writeDFYSheet(f *excelize.File, r *aggregate.Report, headerStyle int) error {
	if _, err := f.NewSheet(sheetDFY); err != nil {
		return err
	}
	rows := [][]interface{}{
		{"Call", "Prospect", "Classification", "Initiated By", "Reason"},
	}
	for _, call := range r.Calls {
		if !call.DFY.Mentioned {
			continue
		}
		rows = append(rows, []interface{}{
			call.Title, call.Prospect.Name, string(call.DFY.Classification),
			string(call.DFY.WhoInitiated), call.DFY.Reason,
		})
	}
	if err := writeRows(f, sheetDFY, rows, headerStyle); err != nil {
		return err
	}
	return f.SetColWidth(sheetDFY, "E", "E", 60)
}

func writeCallsSheet(f *excelize.File, r *aggregate.Report, headerStyle int) error {
	if _, err := f.NewSheet(sheetCalls); err != nil {
		return err
	}
	rows := [][]interface{}{
		{"Title", "Date", "Prospect", "Email", "Website", "Pain Level", "Overall Score", "Pain Points", "Objections"},
	}
	for _, call := range r.Calls {
		rows = append(rows, []interface{}{
			call.Title, call.Date.Format("2006-01-02"), call.Prospect.Name,
			call.Prospect.Email, call.Prospect.Website, call.PainLevel,
			call.OverallScore, len(call.PainPoints), len(call.Objections),
		})
	}
	if err := writeRows(f, sheetCalls, rows, headerStyle); err != nil {
		return err
	}
	return f.SetColWidth(sheetCalls, "A", "A", 40)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	if len(rows) > 0 {
		end, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", end, headerStyle); err != nil {
			return err
		}
	}
	return nil
}
