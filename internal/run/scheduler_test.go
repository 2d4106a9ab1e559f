package run

import (
	"context"
	"strings"
	"testing"
	"time"

	"salesintel/internal/analyze"
	"salesintel/internal/logger"
	"salesintel/internal/transcript"
)

type fakeNewSource struct {
	fakeSource
	fresh    []transcript.Transcript
	gotKnown []string
}

func (f *fakeNewSource) FetchNewTranscripts(ctx context.Context, knownIDs []string) ([]transcript.Transcript, error) {
	f.gotKnown = knownIDs
	return f.fresh, nil
}

type fakeKnownStore struct {
	fakeStore
	known []string
}

func (f *fakeKnownStore) KnownTranscriptIDs() ([]string, error) {
	return f.known, nil
}

type fakeNotifier struct {
	messages []string
}

func (f *fakeNotifier) PostRunSummary(ctx context.Context, text string) error {
	f.messages = append(f.messages, text)
	return nil
}

func TestRunOnceProcessesNewTranscripts(t *testing.T) {
	src := &fakeNewSource{fresh: []transcript.Transcript{salesTranscript("tr-9", "Acme discovery")}}
	st := &fakeKnownStore{known: []string{"tr-1", "tr-2"}}
	notifier := &fakeNotifier{}
	runner := NewRunner(&src.fakeSource, &st.fakeStore, &analyze.Analyzer{HostIdentifiers: []string{"rep@ourco.com"}}, logger.New())

	s := NewScheduler(runner, src, st, time.UTC, logger.New())
	s.Notifier = notifier
	s.RunOnce(context.Background())

	if len(src.gotKnown) != 2 {
		t.Fatalf("known IDs not passed through: %v", src.gotKnown)
	}
	if len(st.saved) != 1 || st.saved[0].TranscriptID != "tr-9" {
		t.Fatalf("unexpected saves: %+v", st.saved)
	}
	if len(notifier.messages) != 1 || !strings.Contains(notifier.messages[0], "1 analyzed") {
		t.Fatalf("unexpected notifications: %v", notifier.messages)
	}
}

func TestRunOnceNothingNew(t *testing.T) {
	src := &fakeNewSource{}
	st := &fakeKnownStore{}
	notifier := &fakeNotifier{}
	runner := NewRunner(&src.fakeSource, &st.fakeStore, &analyze.Analyzer{}, logger.New())

	s := NewScheduler(runner, src, st, time.UTC, logger.New())
	s.Notifier = notifier
	s.RunOnce(context.Background())

	if len(notifier.messages) != 0 {
		t.Fatalf("no-op pass must not notify, got %v", notifier.messages)
	}
	if len(st.saved) != 0 {
		t.Fatalf("unexpected saves: %+v", st.saved)
	}
}

func TestSchedulerStartRejectsBadSchedule(t *testing.T) {
	s := NewScheduler(nil, nil, nil, time.UTC, logger.New())
	if err := s.Start(context.Background(), "not a cron line"); err == nil {
		t.Fatal("malformed schedule must be an error")
	}
	if err := s.Start(context.Background(), ""); err != nil {
		t.Fatalf("empty schedule should disable, not fail: %v", err)
	}
}
