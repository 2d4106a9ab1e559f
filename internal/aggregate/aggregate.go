// Package aggregate merges per-call analysis records into cross-call
// reports. Aggregation is pure and idempotent: the same records always
// produce the same grouped output.
package aggregate

import (
	"math"
	"sort"
	"time"

	"salesintel/internal/analyze"
	"salesintel/internal/classify"
)

// QuoteRef is one pain-point quote with its call attribution. Cross-call
// aggregation keeps every quote; truncation is the display layer's job.
type QuoteRef struct {
	Quote        string
	Context      string
	Intensity    classify.Intensity
	Urgency      classify.Urgency
	ProspectName string
	CallID       string
	CallTitle    string
	Date         time.Time
}

// PainGroup is all quotes for one category across the record set.
type PainGroup struct {
	Category     string
	Urgency      classify.Urgency
	MentionCount int
	AvgIntensity float64 // High=3, Medium=2, Low=1
	Quotes       []QuoteRef
}

// AssetGroup is all phrases of one language-asset type.
type AssetGroup struct {
	Type    classify.AssetType
	Phrases []AssetRef
}

type AssetRef struct {
	Phrase       string
	Context      string
	ProspectName string
	CallID       string
}

// DFYReport counts done-for-you mentions across calls.
type DFYReport struct {
	TotalCalls       int
	Mentioned        int
	ByClassification map[classify.DFYClassification]int
	ByInitiator      map[classify.Initiator]int
	// AvoidableRate = avoidable / mentioned, rounded to the nearest
	// percent; 0 when nothing was mentioned.
	AvoidableRate int
}

// LeadQuality summarizes how reachable the prospects are outside the call.
type LeadQuality struct {
	BusinessEmails int
	GenericEmails  int
	WithWebsite    int
	Websites       []string
}

// Report is the full cross-call aggregation.
type Report struct {
	GeneratedAt   time.Time
	CallsAnalyzed int
	TotalPain     int
	PainGroups    []PainGroup // descending mention count
	Assets        []AssetGroup
	DFY           DFYReport
	LeadQuality   LeadQuality
	Calls         []analyze.AnalysisRecord
}

// Build aggregates a set of per-call records. Groups are sorted by
// descending mention count (ties by category name for determinism);
// quotes within a group by descending intensity, then most recent first.
func Build(records []analyze.AnalysisRecord) Report {
	report := Report{
		GeneratedAt:   time.Now().UTC(),
		CallsAnalyzed: len(records),
		Calls:         append([]analyze.AnalysisRecord(nil), records...),
		DFY: DFYReport{
			TotalCalls:       len(records),
			ByClassification: make(map[classify.DFYClassification]int),
			ByInitiator:      make(map[classify.Initiator]int),
		},
	}

	groups := make(map[string]*PainGroup)
	for _, rec := range records {
		for _, pp := range rec.PainPoints {
			report.TotalPain++
			g, ok := groups[pp.Category]
			if !ok {
				g = &PainGroup{Category: pp.Category, Urgency: pp.Urgency}
				groups[pp.Category] = g
			}
			g.MentionCount++
			g.Quotes = append(g.Quotes, QuoteRef{
				Quote:        pp.Quote,
				Context:      pp.Context,
				Intensity:    pp.Intensity,
				Urgency:      pp.Urgency,
				ProspectName: rec.Prospect.Name,
				CallID:       rec.ID,
				CallTitle:    rec.Title,
				Date:         rec.Date,
			})
		}

		if rec.DFY.Mentioned {
			report.DFY.Mentioned++
			report.DFY.ByClassification[rec.DFY.Classification]++
			report.DFY.ByInitiator[rec.DFY.WhoInitiated]++
		}

		aggregateLeadQuality(&report.LeadQuality, rec)
	}

	for _, g := range groups {
		weightSum := 0
		for _, q := range g.Quotes {
			weightSum += q.Intensity.Weight()
		}
		g.AvgIntensity = float64(weightSum) / float64(len(g.Quotes))
		sortQuotes(g.Quotes)
		report.PainGroups = append(report.PainGroups, *g)
	}
	sort.Slice(report.PainGroups, func(i, j int) bool {
		a, b := report.PainGroups[i], report.PainGroups[j]
		if a.MentionCount != b.MentionCount {
			return a.MentionCount > b.MentionCount
		}
		return a.Category < b.Category
	})

	report.Assets = buildAssetGroups(records)
	report.DFY.AvoidableRate = avoidableRate(report.DFY)
	return report
}

// sortQuotes orders by descending intensity, then descending date. This
// dual order is a fixed contract, not configurable.
func sortQuotes(quotes []QuoteRef) {
	sort.SliceStable(quotes, func(i, j int) bool {
		wi, wj := quotes[i].Intensity.Weight(), quotes[j].Intensity.Weight()
		if wi != wj {
			return wi > wj
		}
		return quotes[i].Date.After(quotes[j].Date)
	})
}

func buildAssetGroups(records []analyze.AnalysisRecord) []AssetGroup {
	order := []classify.AssetType{
		classify.AssetIndustryTerm,
		classify.AssetEmotional,
		classify.AssetMetaphor,
		classify.AssetPowerWord,
	}
	byType := make(map[classify.AssetType][]AssetRef)
	for _, rec := range records {
		for _, asset := range rec.LanguageAssets {
			byType[asset.Type] = append(byType[asset.Type], AssetRef{
				Phrase:       asset.Phrase,
				Context:      asset.Context,
				ProspectName: rec.Prospect.Name,
				CallID:       rec.ID,
			})
		}
	}
	var groups []AssetGroup
	for _, at := range order {
		if refs := byType[at]; len(refs) > 0 {
			groups = append(groups, AssetGroup{Type: at, Phrases: refs})
		}
	}
	return groups
}

func avoidableRate(d DFYReport) int {
	if d.Mentioned == 0 {
		return 0
	}
	avoidable := d.ByClassification[classify.DFYAvoidable]
	return int(math.Round(float64(avoidable) / float64(d.Mentioned) * 100))
}

func aggregateLeadQuality(lq *LeadQuality, rec analyze.AnalysisRecord) {
	if rec.Prospect.Email != "" {
		if classify.ClassifyEmailDomain(rec.Prospect.Email).IsBusiness {
			lq.BusinessEmails++
		} else {
			lq.GenericEmails++
		}
	}
	if site := classify.DeriveWebsite(rec.Prospect.Website, rec.Prospect.Email); site != "" {
		lq.WithWebsite++
		lq.Websites = append(lq.Websites, site)
	}
}

// TopPainGroups returns the first n groups without mutating the report.
func (r *Report) TopPainGroups(n int) []PainGroup {
	if n > len(r.PainGroups) {
		n = len(r.PainGroups)
	}
	return r.PainGroups[:n]
}
