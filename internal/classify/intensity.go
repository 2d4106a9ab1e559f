package classify

import "strings"

type Intensity string

const (
	IntensityHigh   Intensity = "High"
	IntensityMedium Intensity = "Medium"
	IntensityLow    Intensity = "Low"
)

// Weight encodes intensity numerically for averaging: High=3, Medium=2,
// Low=1.
func (i Intensity) Weight() int {
	switch i {
	case IntensityHigh:
		return 3
	case IntensityLow:
		return 1
	default:
		return 2
	}
}

// Scanned in fixed order high, medium, low; first match wins.
var intensityTables = []struct {
	intensity Intensity
	keywords  []string
}{
	{IntensityHigh, []string{
		"nightmare",
		"killing me",
		"killing my",
		"desperate",
		"i hate",
		"absolutely hate",
		"impossible",
		"extremely frustrating",
		"drowning in",
		"at my wits end",
		"can't take it anymore",
	}},
	{IntensityMedium, []string{
		"frustrating",
		"frustrated",
		"annoying",
		"really difficult",
		"struggle with",
		"struggling",
		"big problem",
		"serious issue",
		"painful",
	}},
	{IntensityLow, []string{
		"a bit",
		"a little",
		"slightly",
		"minor",
		"sometimes",
		"occasionally",
		"not a huge deal",
		"would be nice",
	}},
}

// ClassifyIntensity scans the intensity tables in order and defaults to
// Medium when nothing matches.
func ClassifyIntensity(text string) Intensity {
	lower := strings.ToLower(text)
	for _, table := range intensityTables {
		for _, kw := range table.keywords {
			if strings.Contains(lower, kw) {
				return table.intensity
			}
		}
	}
	return IntensityMedium
}
