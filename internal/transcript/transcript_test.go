package transcript

import (
	"testing"
	"time"
)

func demoTranscript() *Transcript {
	return &Transcript{
		ID:           "tr-1",
		Title:        "Acme discovery call",
		Date:         time.Date(2026, 2, 10, 15, 0, 0, 0, time.UTC),
		HostEmail:    "alex@ourco.com",
		Participants: []string{"alex@ourco.com", "jane@acme.com"},
		Speakers: []Speaker{
			{ID: "1", Name: "Alex Rep", Email: "alex@ourco.com", IsHost: true},
			{ID: "2", Name: "Jane Doe", Email: "jane@acme.com"},
		},
		Sentences: []Utterance{
			{Index: 0, Speaker: "Alex Rep", SpeakerID: "1", Text: "How is business going?"},
			{Index: 1, Speaker: "Jane Doe", SpeakerID: "2", Text: "Honestly, pretty rough."},
			{Index: 2, Speaker: "Jane Doe", SpeakerID: "2", Text: "We lost two clients last month."},
			{Index: 3, Speaker: "Alex Rep", SpeakerID: "1", Text: "Sorry to hear that."},
		},
	}
}

func TestSummaryOnly(t *testing.T) {
	full := demoTranscript()
	if full.SummaryOnly() {
		t.Error("transcript with sentences must not be summary-only")
	}

	summary := &Transcript{ID: "tr-2", Title: "Listed call"}
	if !summary.SummaryOnly() {
		t.Error("transcript without sentences and speakers must be summary-only")
	}
}

func TestProspectUtterancesExcludesHostSide(t *testing.T) {
	got := demoTranscript().ProspectUtterances(nil)
	if len(got) != 2 {
		t.Fatalf("prospect utterances = %d, want 2", len(got))
	}
	// Original transcript indices are preserved for windowing.
	if got[0].Index != 1 || got[1].Index != 2 {
		t.Fatalf("indices = %d, %d; want 1, 2", got[0].Index, got[1].Index)
	}
}

func TestProspectUtterancesHostByFlag(t *testing.T) {
	tr := demoTranscript()
	tr.HostEmail = ""
	tr.Speakers[0].Email = ""
	// IsHost alone still marks the sales side.
	got := tr.ProspectUtterances(nil)
	if len(got) != 2 {
		t.Fatalf("prospect utterances = %d, want 2", len(got))
	}
}

func TestProspectUtterancesExtraIdentifiers(t *testing.T) {
	tr := demoTranscript()
	// "jane" now counts as sales side too, leaving no prospect speech.
	got := tr.ProspectUtterances([]string{"Jane Doe"})
	if len(got) != 0 {
		t.Fatalf("prospect utterances = %d, want 0", len(got))
	}
}

func TestProspectUtterancesWithoutSpeakerMetadata(t *testing.T) {
	tr := demoTranscript()
	tr.Speakers = nil
	for i := range tr.Sentences {
		tr.Sentences[i].SpeakerID = ""
	}
	got := tr.ProspectUtterances([]string{"alex rep"})
	if len(got) != 2 {
		t.Fatalf("prospect utterances = %d, want 2", len(got))
	}
}

func TestProspectNameAndEmail(t *testing.T) {
	tr := demoTranscript()
	if got := tr.ProspectName(nil); got != "Jane Doe" {
		t.Errorf("ProspectName = %q", got)
	}
	if got := tr.ProspectEmail(nil); got != "jane@acme.com" {
		t.Errorf("ProspectEmail = %q", got)
	}

	// Without speakers, fall back to participants.
	tr.Speakers = nil
	if got := tr.ProspectName(nil); got != "jane@acme.com" {
		t.Errorf("ProspectName fallback = %q", got)
	}

	// Every participant on the host side leaves nothing.
	tr.Participants = []string{"alex@ourco.com"}
	if got := tr.ProspectEmail(nil); got != "" {
		t.Errorf("ProspectEmail = %q, want empty", got)
	}
}
