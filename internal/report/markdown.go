// Package report renders aggregate reports to markdown, Excel, and JSON
// files on disk.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"salesintel/internal/aggregate"
	"salesintel/internal/classify"
)

// Options tune the rendered output; zero values mean "show everything".
type Options struct {
	// TopN limits the pain category sections. 0 keeps all categories.
	TopN int
	// ExecutiveSummary is prepended verbatim when non-empty.
	ExecutiveSummary string
	// MaxQuoteLen truncates displayed quotes. Stored quotes are never cut.
	MaxQuoteLen int
	// DealStatuses annotates per-call blocks with pipeline stages read
	// from Slack, keyed by transcript ID.
	DealStatuses map[string]string
}

const defaultMaxQuoteLen = 300

// BuildMarkdown renders the full insight report.
func BuildMarkdown(r *aggregate.Report, opts Options) string {
	maxQuote := opts.MaxQuoteLen
	if maxQuote <= 0 {
		maxQuote = defaultMaxQuoteLen
	}
	groups := r.PainGroups
	if opts.TopN > 0 {
		groups = r.TopPainGroups(opts.TopN)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Sales Call Insights\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04 MST"))

	if opts.ExecutiveSummary != "" {
		b.WriteString("## Executive Summary\n\n")
		b.WriteString(strings.TrimSpace(opts.ExecutiveSummary))
		b.WriteString("\n\n")
	}

	b.WriteString("## Overview\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Calls analyzed | %d |\n", r.CallsAnalyzed)
	fmt.Fprintf(&b, "| Pain points | %d |\n", r.TotalPain)
	fmt.Fprintf(&b, "| DFY mentions | %d of %d calls |\n", r.DFY.Mentioned, r.DFY.TotalCalls)
	fmt.Fprintf(&b, "| Avoidable DFY rate | %d%% |\n", r.DFY.AvoidableRate)
	fmt.Fprintf(&b, "| Business emails | %d |\n", r.LeadQuality.BusinessEmails)
	fmt.Fprintf(&b, "| Generic emails | %d |\n", r.LeadQuality.GenericEmails)
	b.WriteString("\n")

	b.WriteString("## Pain Point Matrix\n\n")
	if len(groups) == 0 {
		b.WriteString("No pain points detected.\n\n")
	}
	for _, g := range groups {
		fmt.Fprintf(&b, "### %s\n\n", g.Category)
		fmt.Fprintf(&b, "Urgency: %s | Mentions: %d | Avg intensity: %.1f\n\n",
			g.Urgency, g.MentionCount, g.AvgIntensity)
		for _, q := range g.Quotes {
			fmt.Fprintf(&b, "- [%s] \"%s\"", q.Intensity, truncate(q.Quote, maxQuote))
			if q.ProspectName != "" {
				fmt.Fprintf(&b, " (%s, %s)", q.ProspectName, q.Date.Format("2006-01-02"))
			} else {
				fmt.Fprintf(&b, " (%s)", q.Date.Format("2006-01-02"))
			}
			b.WriteString("\n")
			if q.Context != "" {
				fmt.Fprintf(&b, "  - Prompted by: \"%s\"\n", truncate(q.Context, maxQuote))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("## Done-For-You Demand\n\n")
	if r.DFY.Mentioned == 0 {
		b.WriteString("No done-for-you requests across the analyzed calls.\n\n")
	} else {
		for _, class := range []classify.DFYClassification{classify.DFYJustified, classify.DFYAvoidable, classify.DFYPremature} {
			if n := r.DFY.ByClassification[class]; n > 0 {
				fmt.Fprintf(&b, "- %s: %d\n", class, n)
			}
		}
		for _, init := range []classify.Initiator{classify.InitiatorProspect, classify.InitiatorSales} {
			if n := r.DFY.ByInitiator[init]; n > 0 {
				fmt.Fprintf(&b, "- initiated by %s: %d\n", init, n)
			}
		}
		fmt.Fprintf(&b, "\nAvoidable rate: %d%%\n\n", r.DFY.AvoidableRate)
	}

	if len(r.Assets) > 0 {
		b.WriteString("## Language Assets\n\n")
		for _, ag := range r.Assets {
			fmt.Fprintf(&b, "### %s\n\n", ag.Type)
			for _, ph := range ag.Phrases {
				fmt.Fprintf(&b, "- \"%s\"", truncate(ph.Phrase, maxQuote))
				if ph.ProspectName != "" {
					fmt.Fprintf(&b, " (%s)", ph.ProspectName)
				}
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("## Lead Quality\n\n")
	fmt.Fprintf(&b, "- Business emails: %d\n", r.LeadQuality.BusinessEmails)
	fmt.Fprintf(&b, "- Generic emails: %d\n", r.LeadQuality.GenericEmails)
	fmt.Fprintf(&b, "- Prospects with a known website: %d\n", r.LeadQuality.WithWebsite)
	if len(r.LeadQuality.Websites) > 0 {
		fmt.Fprintf(&b, "- Websites: %s\n", strings.Join(r.LeadQuality.Websites, ", "))
	}
	b.WriteString("\n")

	b.WriteString("## Calls\n\n")
	for _, call := range r.Calls {
		fmt.Fprintf(&b, "### %s (%s)\n\n", call.Title, call.Date.Format("2006-01-02"))
		fmt.Fprintf(&b, "- Prospect: %s", orDash(call.Prospect.Name))
		if call.Prospect.Email != "" {
			fmt.Fprintf(&b, " <%s>", call.Prospect.Email)
		}
		b.WriteString("\n")
		if call.Prospect.Website != "" {
			fmt.Fprintf(&b, "- Website: %s\n", call.Prospect.Website)
		}
		fmt.Fprintf(&b, "- Pain level: %d/10, overall score: %d/100\n", call.PainLevel, call.OverallScore)
		fmt.Fprintf(&b, "- Pain points: %d, objections: %d, language assets: %d\n",
			len(call.PainPoints), len(call.Objections), len(call.LanguageAssets))
		if call.DFY.Mentioned {
			fmt.Fprintf(&b, "- DFY: %s (initiated by %s)\n", call.DFY.Classification, call.DFY.WhoInitiated)
		}
		if status := opts.DealStatuses[call.TranscriptID]; status != "" {
			fmt.Fprintf(&b, "- Deal status: %s\n", status)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// WriteReportFile writes content under outputDir with a timestamped name.
// ext is "md" or "json".
func WriteReportFile(content, outputDir, prefix, ext string, generatedAt time.Time) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", err
	}
	filename := fmt.Sprintf("%s_%s.%s", prefix, generatedAt.Format("20060102_150405"), ext)
	path := filepath.Join(outputDir, filename)
	return path, os.WriteFile(path, []byte(content), 0644)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
