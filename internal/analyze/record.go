package analyze

import (
	"time"

	"salesintel/internal/classify"
)

// PainPoint is one categorized prospect frustration, quote-backed and
// windowed across adjacent same-speaker utterances.
type PainPoint struct {
	Category    string
	Urgency     classify.Urgency
	Intensity   classify.Intensity
	Quote       string
	Context     string // the cross-speaker prompt that elicited the quote
	TimestampMs int64
}

// DFYMention is the per-call done-for-you verdict. First mention fixes
// WhoInitiated and TimestampMs; Contexts accumulates every DFY utterance.
type DFYMention struct {
	Mentioned      bool
	WhoInitiated   classify.Initiator
	TimestampMs    int64
	Reason         string
	Classification classify.DFYClassification
	Contexts       []string
}

// LanguageAsset is a reusable phrase from prospect speech.
type LanguageAsset struct {
	Type    classify.AssetType
	Phrase  string
	Context string
}

// Objection is one categorized buying hesitation.
type Objection struct {
	Category classify.ObjectionCategory
	Quote    string
	Context  string
}

// ProspectProfile is what we can derive about the prospect from call
// metadata alone.
type ProspectProfile struct {
	Name    string
	Email   string
	Company string
	Website string
}

// AnalysisRecord is the unit of truth for one call. It is immutable once
// produced; re-analysis replaces it wholesale.
type AnalysisRecord struct {
	ID              string
	TranscriptID    string
	Title           string
	Date            time.Time
	DurationMinutes int
	Participants    []string
	Prospect        ProspectProfile
	PainPoints      []PainPoint
	DFY             DFYMention
	LanguageAssets  []LanguageAsset
	Objections      []Objection
	PainLevel       int // 0-10
	OverallScore    int // 0-100
	CreatedAt       time.Time
}

// PainPointsByUrgency groups the record's pain points into the three
// urgency buckets, preserving in-call order within each bucket.
func (r *AnalysisRecord) PainPointsByUrgency() map[classify.Urgency][]PainPoint {
	grouped := make(map[classify.Urgency][]PainPoint)
	for _, pp := range r.PainPoints {
		grouped[pp.Urgency] = append(grouped[pp.Urgency], pp)
	}
	return grouped
}

// computePainLevel is the sum of intensity weights capped at 10, so it is
// monotonic in both count and intensity.
func computePainLevel(points []PainPoint) int {
	level := 0
	for _, pp := range points {
		level += pp.Intensity.Weight()
	}
	if level > 10 {
		level = 10
	}
	return level
}

// computeOverallScore combines pain level with the secondary signals into
// a 0-100 lead-interest score. Each term is individually capped so the
// total is bounded and monotone in every input.
func computeOverallScore(painLevel int, dfy DFYMention, assets, objections int) int {
	score := painLevel * 6 // 0-60

	if dfy.Mentioned {
		if dfy.Classification == classify.DFYJustified {
			score += 15
		} else {
			score += 5
		}
	}

	assetBonus := assets * 2
	if assetBonus > 10 {
		assetBonus = 10
	}
	score += assetBonus

	objectionBonus := objections * 5
	if objectionBonus > 15 {
		objectionBonus = 15
	}
	score += objectionBonus

	if score > 100 {
		score = 100
	}
	return score
}
