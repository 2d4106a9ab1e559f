// Package analyze turns one transcript into a complete AnalysisRecord.
// Analysis is deterministic and side-effect free: the same transcript
// always produces the same record body (only ID and CreatedAt vary).
package analyze

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"salesintel/internal/classify"
	"salesintel/internal/transcript"
)

// ErrEmptyTranscript marks a transcript with no sentence data. This is an
// input-validation failure, never silently defaulted.
var ErrEmptyTranscript = errors.New("transcript has no sentences")

// Leading-substring length used for near-duplicate quote detection.
const dupQuotePrefixLen = 40

// Analyzer applies the classifier library to single calls.
type Analyzer struct {
	// Extra names/emails treated as the sales side on top of the
	// transcript's own host metadata.
	HostIdentifiers []string
}

// Analyze produces the full per-call record. The caller is expected to
// have filtered non-sales calls out already.
func (a *Analyzer) Analyze(t *transcript.Transcript) (*AnalysisRecord, error) {
	if t == nil || len(t.Sentences) == 0 {
		return nil, fmt.Errorf("analyze %s: %w", transcriptLabel(t), ErrEmptyTranscript)
	}

	// Positions of each sentence in the full ordered sequence; prospect
	// views carry the original Index so windowing never re-derives it.
	positions := make(map[int]int, len(t.Sentences))
	for pos, u := range t.Sentences {
		positions[u.Index] = pos
	}

	prospect := t.ProspectUtterances(a.HostIdentifiers)
	prospectIdx := make(map[int]bool, len(prospect))
	for _, u := range prospect {
		prospectIdx[u.Index] = true
	}

	record := &AnalysisRecord{
		ID:              uuid.New().String(),
		TranscriptID:    t.ID,
		Title:           t.Title,
		Date:            t.Date,
		DurationMinutes: t.DurationMinutes,
		Participants:    append([]string(nil), t.Participants...),
		CreatedAt:       time.Now().UTC(),
	}

	record.PainPoints = a.extractPainPoints(t, prospect, positions)
	record.LanguageAssets = a.extractLanguageAssets(t, prospect, positions)
	record.Objections = a.extractObjections(t, prospect, positions)
	record.DFY = a.scanDFY(t, prospect, prospectIdx)
	record.Prospect = a.prospectProfile(t)

	record.PainLevel = computePainLevel(record.PainPoints)
	record.OverallScore = computeOverallScore(
		record.PainLevel, record.DFY, len(record.LanguageAssets), len(record.Objections))

	return record, nil
}

func (a *Analyzer) extractPainPoints(t *transcript.Transcript, prospect []transcript.Utterance, positions map[int]int) []PainPoint {
	var points []PainPoint
	seen := make(map[string]bool)

	for _, u := range prospect {
		cat, ok := classify.ClassifyPainPoint(u.Text)
		if !ok {
			continue
		}
		window := BuildContext(t.Sentences, positions[u.Index])
		if len(window.FullQuote) < cat.MinQuoteLength {
			continue
		}
		// Near-duplicate quotes (same leading substring) collapse to the
		// first occurrence.
		prefix := quotePrefix(window.FullQuote)
		if seen[prefix] {
			continue
		}
		seen[prefix] = true

		points = append(points, PainPoint{
			Category:    cat.Name,
			Urgency:     cat.Urgency,
			Intensity:   classify.ClassifyIntensity(window.FullQuote),
			Quote:       window.FullQuote,
			Context:     window.PromptContext,
			TimestampMs: window.TimestampMs,
		})
	}
	return points
}

func (a *Analyzer) extractLanguageAssets(t *transcript.Transcript, prospect []transcript.Utterance, positions map[int]int) []LanguageAsset {
	var assets []LanguageAsset
	for _, u := range prospect {
		assetType, ok := classify.ClassifyLanguageAsset(u.Text)
		if !ok {
			continue
		}
		window := BuildContext(t.Sentences, positions[u.Index])
		assets = append(assets, LanguageAsset{
			Type:    assetType,
			Phrase:  strings.TrimSpace(u.Text),
			Context: window.PromptContext,
		})
	}
	return assets
}

func (a *Analyzer) extractObjections(t *transcript.Transcript, prospect []transcript.Utterance, positions map[int]int) []Objection {
	var objections []Objection
	seen := make(map[string]bool)
	for _, u := range prospect {
		cat, ok := classify.ClassifyObjection(u.Text)
		if !ok {
			continue
		}
		window := BuildContext(t.Sentences, positions[u.Index])
		prefix := quotePrefix(window.FullQuote)
		if seen[prefix] {
			continue
		}
		seen[prefix] = true
		objections = append(objections, Objection{
			Category: cat,
			Quote:    window.FullQuote,
			Context:  window.PromptContext,
		})
	}
	return objections
}

// scanDFY runs the two whole-transcript passes. Pass one collects the
// prospect's capability and need signals wherever they occur, so the
// final verdict never depends on where the mention sits relative to the
// signals. Pass two finds every DFY utterance; the first one fixes the
// initiator and timestamp.
func (a *Analyzer) scanDFY(t *transcript.Transcript, prospect []transcript.Utterance, prospectIdx map[int]bool) DFYMention {
	capability, need := false, false
	for _, u := range prospect {
		if classify.HasCapabilitySignal(u.Text) {
			capability = true
		}
		if classify.HasNeedSignal(u.Text) {
			need = true
		}
	}

	mention := DFYMention{}
	for _, u := range t.Sentences {
		if !classify.IsDFYKeyword(u.Text) {
			continue
		}
		if !mention.Mentioned {
			mention.Mentioned = true
			mention.TimestampMs = u.StartTimeMs
			if prospectIdx[u.Index] {
				mention.WhoInitiated = classify.InitiatorProspect
			} else {
				mention.WhoInitiated = classify.InitiatorSales
			}
		}
		mention.Contexts = append(mention.Contexts,
			fmt.Sprintf("[%s]: %s", u.Speaker, strings.TrimSpace(u.Text)))
	}
	if !mention.Mentioned {
		return mention
	}

	mention.Classification = classify.ClassifyDFY(mention.WhoInitiated, capability, need)
	mention.Reason = dfyReason(mention.WhoInitiated, capability, need)
	return mention
}

func dfyReason(initiator classify.Initiator, capability, need bool) string {
	switch {
	case initiator == classify.InitiatorProspect:
		return "prospect raised the service themselves"
	case need:
		return "sales raised it after the prospect showed need"
	case capability:
		return "sales raised it although the prospect showed capability"
	default:
		return "sales raised it without any prospect signal"
	}
}

func (a *Analyzer) prospectProfile(t *transcript.Transcript) ProspectProfile {
	email := t.ProspectEmail(a.HostIdentifiers)
	profile := ProspectProfile{
		Name:    t.ProspectName(a.HostIdentifiers),
		Email:   email,
		Website: classify.DeriveWebsite("", email),
	}
	if ed := classify.ClassifyEmailDomain(email); ed.IsBusiness {
		profile.Company = ed.Domain
	}
	return profile
}

func quotePrefix(quote string) string {
	lower := strings.ToLower(quote)
	if len(lower) > dupQuotePrefixLen {
		return lower[:dupQuotePrefixLen]
	}
	return lower
}

func transcriptLabel(t *transcript.Transcript) string {
	if t == nil {
		return "<nil>"
	}
	if t.Title != "" {
		return t.Title
	}
	return t.ID
}
