package analyze

import (
	"strings"

	"salesintel/internal/transcript"
)

const (
	// Same-speaker utterances merged into the quote on each side.
	maxQuoteDistance = 3
	// How far back to look for the other speaker's prompt.
	maxPromptDistance = 5
)

// ContextWindow is the windowed excerpt around one matched utterance.
type ContextWindow struct {
	FullQuote     string
	PromptContext string
	TimestampMs   int64
}

// BuildContext windows around all[pos]. It collects up to maxQuoteDistance
// preceding and following utterances from the same speaker into FullQuote
// (original order, space-joined) and finds the nearest preceding utterance
// from a different speaker within maxPromptDistance as PromptContext.
//
// pos is a position in the full ordered sequence, never an index into a
// filtered view: filtered views must carry original positions instead of
// re-deriving them.
func BuildContext(all []transcript.Utterance, pos int) ContextWindow {
	if pos < 0 || pos >= len(all) {
		return ContextWindow{}
	}
	center := all[pos]

	start := pos
	for start > 0 && pos-start < maxQuoteDistance && all[start-1].Speaker == center.Speaker {
		start--
	}
	end := pos
	for end < len(all)-1 && end-pos < maxQuoteDistance && all[end+1].Speaker == center.Speaker {
		end++
	}

	parts := make([]string, 0, end-start+1)
	for i := start; i <= end; i++ {
		if text := strings.TrimSpace(all[i].Text); text != "" {
			parts = append(parts, text)
		}
	}

	prompt := ""
	for i := pos - 1; i >= 0 && pos-i <= maxPromptDistance; i-- {
		if all[i].Speaker != center.Speaker {
			prompt = strings.TrimSpace(all[i].Text)
			break
		}
	}

	return ContextWindow{
		FullQuote:     strings.Join(parts, " "),
		PromptContext: prompt,
		TimestampMs:   center.StartTimeMs,
	}
}
