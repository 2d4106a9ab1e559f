package analyze

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"salesintel/internal/classify"
	"salesintel/internal/transcript"
)

func testTranscript(t *testing.T, lines ...[2]string) *transcript.Transcript {
	t.Helper()
	tr := &transcript.Transcript{
		ID:              "tr-1",
		Title:           "Acme discovery call",
		Date:            time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC),
		DurationMinutes: 30,
		HostEmail:       "rep@ourco.com",
		Participants:    []string{"rep@ourco.com", "jane@acme.com"},
		Speakers: []transcript.Speaker{
			{ID: "s1", Name: "Rep", Email: "rep@ourco.com", IsHost: true},
			{ID: "s2", Name: "Jane", Email: "jane@acme.com"},
		},
	}
	speakerID := map[string]string{"Rep": "s1", "Jane": "s2"}
	for i, line := range lines {
		tr.Sentences = append(tr.Sentences, transcript.Utterance{
			Index:       i,
			Speaker:     line[0],
			SpeakerID:   speakerID[line[0]],
			Text:        line[1],
			StartTimeMs: int64(i * 5000),
		})
	}
	return tr
}

func TestAnalyzeEmptyTranscript(t *testing.T) {
	a := &Analyzer{}
	_, err := a.Analyze(&transcript.Transcript{ID: "empty"})
	if !errors.Is(err, ErrEmptyTranscript) {
		t.Fatalf("expected ErrEmptyTranscript, got %v", err)
	}
	if _, err := a.Analyze(nil); !errors.Is(err, ErrEmptyTranscript) {
		t.Fatalf("expected ErrEmptyTranscript for nil, got %v", err)
	}
}

func TestAnalyzePainPointsWindowedAndDeduped(t *testing.T) {
	tr := testTranscript(t,
		[2]string{"Rep", "What does your week look like?"},
		[2]string{"Jane", "Honestly I spend hours on follow-up emails."},
		[2]string{"Jane", "Every single day, it never ends."},
		[2]string{"Rep", "That sounds rough."},
		// Same leading substring as the first hit once windowed from the
		// neighboring sentence: should collapse to one pain point.
		[2]string{"Jane", "Honestly I spend hours on follow-up emails."},
	)
	a := &Analyzer{}
	rec, err := a.Analyze(tr)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(rec.PainPoints) != 1 {
		t.Fatalf("expected 1 deduped pain point, got %d: %+v", len(rec.PainPoints), rec.PainPoints)
	}
	pp := rec.PainPoints[0]
	if pp.Category != "time_drain" {
		t.Fatalf("expected time_drain, got %s", pp.Category)
	}
	want := "Honestly I spend hours on follow-up emails. Every single day, it never ends."
	if pp.Quote != want {
		t.Fatalf("expected windowed quote %q, got %q", want, pp.Quote)
	}
	if pp.Context != "What does your week look like?" {
		t.Fatalf("expected rep prompt as context, got %q", pp.Context)
	}
	if pp.TimestampMs != 5000 {
		t.Fatalf("expected center timestamp, got %d", pp.TimestampMs)
	}
}

func TestAnalyzeDiscardsShortQuotes(t *testing.T) {
	tr := testTranscript(t,
		[2]string{"Rep", "And costs?"},
		// Matches cost_pressure but the whole windowed quote is under the
		// category's minimum length.
		[2]string{"Jane", "Too expensive."},
	)
	a := &Analyzer{}
	rec, err := a.Analyze(tr)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(rec.PainPoints) != 0 {
		t.Fatalf("expected short quote discarded, got %+v", rec.PainPoints)
	}
}

func TestAnalyzeDFYProspectInitiated(t *testing.T) {
	tr := testTranscript(t,
		[2]string{"Rep", "Any questions so far?"},
		[2]string{"Jane", "Do you offer a managed service for this?"},
		[2]string{"Rep", "We do have a done for you tier, yes."},
	)
	a := &Analyzer{}
	rec, err := a.Analyze(tr)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	dfy := rec.DFY
	if !dfy.Mentioned {
		t.Fatal("expected DFY mention")
	}
	if dfy.WhoInitiated != classify.InitiatorProspect {
		t.Fatalf("expected prospect initiator, got %s", dfy.WhoInitiated)
	}
	if dfy.Classification != classify.DFYJustified {
		t.Fatalf("expected justified, got %s", dfy.Classification)
	}
	if dfy.TimestampMs != 5000 {
		t.Fatalf("first mention timestamp expected 5000, got %d", dfy.TimestampMs)
	}
	if len(dfy.Contexts) != 2 {
		t.Fatalf("expected both DFY utterances collected, got %d", len(dfy.Contexts))
	}
}

func TestAnalyzeDFYPremature(t *testing.T) {
	tr := testTranscript(t,
		[2]string{"Rep", "We can also run everything done for you."},
		[2]string{"Jane", "Interesting, tell me more."},
	)
	a := &Analyzer{}
	rec, err := a.Analyze(tr)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if rec.DFY.WhoInitiated != classify.InitiatorSales {
		t.Fatalf("expected sales initiator, got %s", rec.DFY.WhoInitiated)
	}
	if rec.DFY.Classification != classify.DFYPremature {
		t.Fatalf("expected premature, got %s", rec.DFY.Classification)
	}
}

func TestAnalyzeDFYSignalsIndependentOfOrder(t *testing.T) {
	// Need signal appears after the sales mention; verdict must still be
	// justified because signals are scanned across the whole call.
	tr := testTranscript(t,
		[2]string{"Rep", "We could do this as a fully managed package."},
		[2]string{"Jane", "Hmm, okay."},
		[2]string{"Jane", "I really don't have time to run campaigns myself."},
	)
	a := &Analyzer{}
	rec, err := a.Analyze(tr)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if rec.DFY.Classification != classify.DFYJustified {
		t.Fatalf("expected justified, got %s", rec.DFY.Classification)
	}
}

func TestAnalyzeDFYAvoidable(t *testing.T) {
	tr := testTranscript(t,
		[2]string{"Jane", "We have a team in house for all the setup work."},
		[2]string{"Rep", "Understood, though our done for you plan saves you that."},
	)
	a := &Analyzer{}
	rec, err := a.Analyze(tr)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if rec.DFY.Classification != classify.DFYAvoidable {
		t.Fatalf("expected avoidable, got %s", rec.DFY.Classification)
	}
}

func TestAnalyzeNoDFY(t *testing.T) {
	tr := testTranscript(t,
		[2]string{"Rep", "How is the quarter going?"},
		[2]string{"Jane", "Pretty well actually."},
	)
	a := &Analyzer{}
	rec, err := a.Analyze(tr)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if rec.DFY.Mentioned || rec.DFY.Classification != "" {
		t.Fatalf("expected empty DFY mention, got %+v", rec.DFY)
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	tr := testTranscript(t,
		[2]string{"Rep", "What's the biggest blocker?"},
		[2]string{"Jane", "It's a nightmare, I spend hours every week on reporting."},
		[2]string{"Jane", "And our funnel just isn't converting."},
		[2]string{"Jane", "Do you offer a done for you option?"},
	)
	a := &Analyzer{}
	r1, err := a.Analyze(tr)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	r2, err := a.Analyze(tr)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	// ID and CreatedAt are per-record; everything else must match.
	r2.ID, r2.CreatedAt = r1.ID, r1.CreatedAt
	if !reflect.DeepEqual(r1, r2) {
		t.Fatalf("analysis is not deterministic:\n%+v\nvs\n%+v", r1, r2)
	}
}

func TestAnalyzeScoresBoundedAndMonotone(t *testing.T) {
	small := testTranscript(t,
		[2]string{"Rep", "Anything slowing you down?"},
		[2]string{"Jane", "It is a bit annoying that we spend hours on manual data entry."},
	)
	big := testTranscript(t,
		[2]string{"Rep", "Anything slowing you down?"},
		[2]string{"Jane", "It's a nightmare, I spend hours on manual data entry."},
		[2]string{"Rep", "What else?"},
		[2]string{"Jane", "Our pipeline is dry and it's killing me."},
		[2]string{"Rep", "And the tooling?"},
		[2]string{"Jane", "The whole stack is too complicated, I'm drowning in it."},
	)
	a := &Analyzer{}
	recSmall, err := a.Analyze(small)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	recBig, err := a.Analyze(big)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if recSmall.PainLevel < 0 || recSmall.PainLevel > 10 || recBig.PainLevel > 10 {
		t.Fatalf("pain level out of range: %d / %d", recSmall.PainLevel, recBig.PainLevel)
	}
	if recBig.PainLevel <= recSmall.PainLevel {
		t.Fatalf("more and stronger pain must not lower the level: %d <= %d",
			recBig.PainLevel, recSmall.PainLevel)
	}
	if recBig.OverallScore > 100 || recSmall.OverallScore < 0 {
		t.Fatalf("overall score out of range: %d / %d", recSmall.OverallScore, recBig.OverallScore)
	}
}

func TestAnalyzeProspectProfile(t *testing.T) {
	tr := testTranscript(t,
		[2]string{"Rep", "Hi Jane."},
		[2]string{"Jane", "Hi there."},
	)
	a := &Analyzer{}
	rec, err := a.Analyze(tr)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	p := rec.Prospect
	if p.Name != "Jane" {
		t.Fatalf("expected prospect name Jane, got %q", p.Name)
	}
	if p.Email != "jane@acme.com" || p.Company != "acme.com" || p.Website != "acme.com" {
		t.Fatalf("unexpected profile: %+v", p)
	}
}

func TestPainPointsByUrgency(t *testing.T) {
	rec := &AnalysisRecord{PainPoints: []PainPoint{
		{Category: "time_drain", Urgency: classify.UrgencyImmediate},
		{Category: "cost_pressure", Urgency: classify.UrgencyShortTerm},
		{Category: "lead_flow", Urgency: classify.UrgencyImmediate},
	}}
	grouped := rec.PainPointsByUrgency()
	if len(grouped[classify.UrgencyImmediate]) != 2 || len(grouped[classify.UrgencyShortTerm]) != 1 {
		t.Fatalf("unexpected grouping: %+v", grouped)
	}
}
