package transcript

import "strings"

// Titles containing any of these are internal meetings, not sales calls.
// Checked case-insensitively as substrings, matching how meeting tools
// title recurring internal events.
var internalTitleMarkers = []string{
	"standup",
	"stand-up",
	"daily sync",
	"team sync",
	"team meeting",
	"internal",
	"retro",
	"retrospective",
	"sprint planning",
	"1:1",
	"1-1",
	"one on one",
	"all hands",
	"all-hands",
	"weekly check-in",
	"onboarding session",
}

// IsSalesCall decides whether a transcript should enter analysis at all.
// extraMarkers lets deployments exclude additional recurring titles.
// A call needs at least two participants to have a prospect side.
func IsSalesCall(t *Transcript, extraMarkers []string) bool {
	title := strings.ToLower(t.Title)
	for _, m := range internalTitleMarkers {
		if markerInTitle(title, m) {
			return false
		}
	}
	for _, m := range extraMarkers {
		m = strings.ToLower(strings.TrimSpace(m))
		if m != "" && markerInTitle(title, m) {
			return false
		}
	}
	if participantCount(t) < 2 {
		return false
	}
	return true
}

// markerInTitle is a substring match that refuses hits embedded in a
// longer number, so "1:1" skips "Alex 1:1" but not "Demo 11:15".
func markerInTitle(title, m string) bool {
	for at := 0; ; {
		i := strings.Index(title[at:], m)
		if i < 0 {
			return false
		}
		i += at
		clearBefore := i == 0 || !isDigit(title[i-1])
		clearAfter := i+len(m) == len(title) || !isDigit(title[i+len(m)])
		if clearBefore && clearAfter {
			return true
		}
		at = i + 1
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func participantCount(t *Transcript) int {
	if len(t.Speakers) > 0 {
		return len(t.Speakers)
	}
	return len(t.Participants)
}
