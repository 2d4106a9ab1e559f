package transcript

import (
	"strings"
	"time"
)

// Speaker is one diarized participant of a call.
type Speaker struct {
	ID        string
	Name      string
	Email     string
	Duration  float64
	WordCount int
	IsHost    bool
}

// Utterance is a single speaker-attributed sentence. Index is the position
// in the transcript's sentence sequence and is the only ordering signal;
// start times can be imprecise and are kept for display only.
type Utterance struct {
	Index       int
	Speaker     string
	SpeakerID   string
	Text        string
	StartTimeMs int64
	EndTimeMs   int64
}

// Transcript is one call as returned by the transcript source. Sentences
// are ordered by Index.
type Transcript struct {
	ID              string
	Title           string
	Date            time.Time
	DurationMinutes int
	HostEmail       string
	OrganizerEmail  string
	Participants    []string
	Speakers        []Speaker
	Sentences       []Utterance
	TranscriptURL   string
}

// SummaryOnly reports whether the transcript carries only list-level
// metadata, i.e. a follow-up detail fetch is needed before analysis.
func (t *Transcript) SummaryOnly() bool {
	return len(t.Sentences) == 0 && len(t.Speakers) == 0
}

// ProspectUtterances returns the sentences spoken by prospects, excluding
// every speaker identified as host/sales side. hostIdentifiers are extra
// names or email fragments treated as non-prospect speakers on top of the
// transcript's own host and organizer emails. Returned utterances keep
// their original Index so windowing can run against the full sequence.
func (t *Transcript) ProspectUtterances(hostIdentifiers []string) []Utterance {
	markers := make([]string, 0, len(hostIdentifiers)+2)
	for _, h := range hostIdentifiers {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			markers = append(markers, h)
		}
	}
	if t.HostEmail != "" {
		markers = append(markers, strings.ToLower(t.HostEmail))
	}
	if t.OrganizerEmail != "" {
		markers = append(markers, strings.ToLower(t.OrganizerEmail))
	}

	hostIDs := make(map[string]bool)
	hostNames := make(map[string]bool)
	for _, sp := range t.Speakers {
		if isHostSpeaker(sp, markers) {
			hostIDs[sp.ID] = true
			hostNames[strings.ToLower(sp.Name)] = true
		}
	}

	var prospect []Utterance
	for _, u := range t.Sentences {
		if u.SpeakerID != "" && hostIDs[u.SpeakerID] {
			continue
		}
		if hostNames[strings.ToLower(u.Speaker)] {
			continue
		}
		// Sentences without a resolvable speaker entry still get the
		// marker check so host names survive missing speaker metadata.
		if matchesAny(strings.ToLower(u.Speaker), markers) {
			continue
		}
		prospect = append(prospect, u)
	}
	return prospect
}

func isHostSpeaker(sp Speaker, markers []string) bool {
	if sp.IsHost {
		return true
	}
	name := strings.ToLower(sp.Name)
	email := strings.ToLower(sp.Email)
	return matchesAny(name, markers) || matchesAny(email, markers)
}

func matchesAny(s string, markers []string) bool {
	if s == "" {
		return false
	}
	for _, m := range markers {
		if m != "" && strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// ProspectName picks the most plausible prospect display name: the first
// speaker that is not on the host side, falling back to the first
// participant that is not the host email.
func (t *Transcript) ProspectName(hostIdentifiers []string) string {
	markers := make([]string, 0, len(hostIdentifiers)+2)
	for _, h := range hostIdentifiers {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			markers = append(markers, h)
		}
	}
	if t.HostEmail != "" {
		markers = append(markers, strings.ToLower(t.HostEmail))
	}
	if t.OrganizerEmail != "" {
		markers = append(markers, strings.ToLower(t.OrganizerEmail))
	}
	for _, sp := range t.Speakers {
		if !isHostSpeaker(sp, markers) && sp.Name != "" {
			return sp.Name
		}
	}
	for _, p := range t.Participants {
		if !matchesAny(strings.ToLower(p), markers) {
			return p
		}
	}
	return ""
}

// ProspectEmail returns the first non-host participant email, or "".
func (t *Transcript) ProspectEmail(hostIdentifiers []string) string {
	markers := make([]string, 0, len(hostIdentifiers)+2)
	for _, h := range hostIdentifiers {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			markers = append(markers, h)
		}
	}
	if t.HostEmail != "" {
		markers = append(markers, strings.ToLower(t.HostEmail))
	}
	if t.OrganizerEmail != "" {
		markers = append(markers, strings.ToLower(t.OrganizerEmail))
	}
	for _, sp := range t.Speakers {
		if sp.Email != "" && !isHostSpeaker(sp, markers) {
			return sp.Email
		}
	}
	for _, p := range t.Participants {
		if strings.Contains(p, "@") && !matchesAny(strings.ToLower(p), markers) {
			return p
		}
	}
	return ""
}
