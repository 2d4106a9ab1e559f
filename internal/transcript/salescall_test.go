package transcript

import "testing"

func TestIsSalesCall(t *testing.T) {
	twoSide := []string{"alex@ourco.com", "jane@acme.com"}
	tests := []struct {
		name         string
		title        string
		participants []string
		extra        []string
		want         bool
	}{
		{"plain sales call", "Acme discovery call", twoSide, nil, true},
		{"standup", "Daily Standup", twoSide, nil, false},
		{"one on one", "Alex / Sam 1:1", twoSide, nil, false},
		{"internal marker mid-title", "Q1 internal planning", twoSide, nil, false},
		{"clock time is not a one on one", "Acme demo 11:15", twoSide, nil, true},
		{"one on one at end of title", "Weekly Alex 1:1", twoSide, nil, false},
		{"case insensitive", "SPRINT PLANNING", twoSide, nil, false},
		{"extra marker", "Pipeline Review", twoSide, []string{"pipeline review"}, false},
		{"single participant", "Acme discovery call", []string{"alex@ourco.com"}, nil, false},
		{"no participants", "Acme discovery call", nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &Transcript{Title: tt.title, Participants: tt.participants}
			if got := IsSalesCall(tr, tt.extra); got != tt.want {
				t.Errorf("IsSalesCall(%q) = %v, want %v", tt.title, got, tt.want)
			}
		})
	}
}

func TestIsSalesCallCountsSpeakersFirst(t *testing.T) {
	// Speaker metadata outranks the participant list when present.
	tr := &Transcript{
		Title:        "Acme discovery call",
		Participants: []string{"alex@ourco.com"},
		Speakers:     []Speaker{{ID: "1", Name: "Alex"}, {ID: "2", Name: "Jane"}},
	}
	if !IsSalesCall(tr, nil) {
		t.Error("two diarized speakers should count as two participants")
	}
}
