// Package classify holds the rule-based classifiers that turn raw call
// sentences into typed signals. Everything here is pure: keyword tables,
// case-insensitive substring matching, no I/O.
package classify

import "strings"

type Urgency string

const (
	UrgencyImmediate Urgency = "immediate"
	UrgencyShortTerm Urgency = "shortTerm"
	UrgencyLongTerm  Urgency = "longTerm"
)

// PainCategory describes one pain-point keyword table. MinQuoteLength is
// the minimum length of the windowed quote; shorter hits are discarded by
// the analyzer.
type PainCategory struct {
	Name           string
	Urgency        Urgency
	MinQuoteLength int
	Keywords       []string
}

// painTables is ordered: the first table whose keyword list matches wins,
// so earlier tables take precedence on ambiguous text. Tables are kept
// mutually exclusive by using long, specific phrases ("spend hours" rather
// than "hours") - adding a phrase that also appears in a later table
// silently changes precedence, so keep them disjoint.
var painTables = []PainCategory{
	{
		Name:           "time_drain",
		Urgency:        UrgencyImmediate,
		MinQuoteLength: 20,
		Keywords: []string{
			"spend hours",
			"spending hours",
			"takes me forever",
			"takes forever",
			"so time consuming",
			"time-consuming",
			"eating up my time",
			"eats up my time",
			"up until midnight",
			"manually every",
			"doing everything myself",
			"do everything myself",
		},
	},
	{
		Name:           "lead_flow",
		Urgency:        UrgencyImmediate,
		MinQuoteLength: 20,
		Keywords: []string{
			"not enough leads",
			"no leads coming",
			"pipeline is dry",
			"pipeline dried up",
			"struggling to get clients",
			"can't find clients",
			"nobody is booking",
			"no one is booking",
			"conversion is terrible",
			"conversions are terrible",
		},
	},
	{
		Name:           "tech_overwhelm",
		Urgency:        UrgencyImmediate,
		MinQuoteLength: 20,
		Keywords: []string{
			"too complicated",
			"can't figure out",
			"cannot figure out",
			"don't understand how to",
			"overwhelmed by the tech",
			"overwhelmed with all the tools",
			"tech stack is a mess",
			"keeps breaking",
			"never works the way",
		},
	},
	{
		Name:           "cost_pressure",
		Urgency:        UrgencyShortTerm,
		MinQuoteLength: 15,
		Keywords: []string{
			"too expensive",
			"can't afford",
			"cannot afford",
			"costing me a fortune",
			"costs are out of control",
			"burning money",
			"wasting money",
			"paying for tools i don't use",
			"ad spend is killing",
		},
	},
	{
		Name:           "scaling_ceiling",
		Urgency:        UrgencyShortTerm,
		MinQuoteLength: 20,
		Keywords: []string{
			"can't scale",
			"cannot scale",
			"hit a ceiling",
			"hit a plateau",
			"plateaued",
			"stuck at the same revenue",
			"can't grow past",
			"maxed out my capacity",
			"bottleneck in my business",
		},
	},
	{
		Name:           "process_chaos",
		Urgency:        UrgencyShortTerm,
		MinQuoteLength: 20,
		Keywords: []string{
			"falling through the cracks",
			"fall through the cracks",
			"no system for",
			"no process for",
			"all over the place",
			"complete mess",
			"spreadsheet hell",
			"juggling too many",
			"constantly putting out fires",
		},
	},
	{
		Name:           "support_gap",
		Urgency:        UrgencyLongTerm,
		MinQuoteLength: 15,
		Keywords: []string{
			"no one to help",
			"nobody to help",
			"all on my own",
			"completely on my own",
			"left hanging",
			"no support from",
			"can't delegate",
			"cannot delegate",
			"wish i had a team",
		},
	},
}

// ClassifyPainPoint returns the first category whose keyword table matches
// the text. Match is case-insensitive substring, not token-boundary.
// Empty text never matches.
func ClassifyPainPoint(text string) (PainCategory, bool) {
	if strings.TrimSpace(text) == "" {
		return PainCategory{}, false
	}
	lower := strings.ToLower(text)
	for _, cat := range painTables {
		for _, kw := range cat.Keywords {
			if strings.Contains(lower, kw) {
				return cat, true
			}
		}
	}
	return PainCategory{}, false
}

// PainCategories exposes the fixed table order for reporting.
func PainCategories() []PainCategory {
	out := make([]PainCategory, len(painTables))
	copy(out, painTables)
	return out
}
