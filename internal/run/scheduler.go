package run

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"salesintel/internal/logger"
	"salesintel/internal/transcript"
)

// NewTranscriptSource lists transcripts not yet analyzed.
type NewTranscriptSource interface {
	FetchNewTranscripts(ctx context.Context, knownIDs []string) ([]transcript.Transcript, error)
}

// KnownIDStore reports which transcripts already have records.
type KnownIDStore interface {
	KnownTranscriptIDs() ([]string, error)
}

// Notifier receives the run summary after each scheduled pass. The Slack
// client satisfies this; a nil Notifier disables notification.
type Notifier interface {
	PostRunSummary(ctx context.Context, text string) error
}

// Scheduler triggers analysis runs on a cron schedule, picking up only
// transcripts without an existing record.
type Scheduler struct {
	Runner   *Runner
	Source   NewTranscriptSource
	Store    KnownIDStore
	Notifier Notifier
	Location *time.Location
	log      *logger.Logger
}

func NewScheduler(runner *Runner, source NewTranscriptSource, store KnownIDStore, loc *time.Location, log *logger.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{Runner: runner, Source: source, Store: store, Location: loc, log: log}
}

// Start parses the 5-field cron expression and launches the tick loop.
// An empty schedule disables the scheduler; a malformed one is an error
// so a typo does not silently turn scheduling off.
func (s *Scheduler) Start(ctx context.Context, schedule string) error {
	schedule = strings.TrimSpace(schedule)
	log := s.log.Component("scheduler")
	if schedule == "" {
		log.Info("scheduled analysis disabled (no schedule configured)")
		return nil
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(schedule)
	if err != nil {
		return err
	}
	log.WithField("schedule", schedule).Info("scheduled analysis enabled")

	go s.loop(ctx, sched)
	return nil
}

func (s *Scheduler) loop(ctx context.Context, sched cron.Schedule) {
	log := s.log.Component("scheduler")
	for {
		now := time.Now().In(s.Location)
		next := sched.Next(now)
		log.WithField("next", next.Format("Mon Jan 2 15:04")).Info("waiting for next scheduled run")

		select {
		case <-ctx.Done():
			return
		case <-time.After(next.Sub(now)):
		}

		s.RunOnce(ctx)
	}
}

// RunOnce performs a single scheduled pass: fetch transcripts that have
// no record yet, analyze them, notify. Failures are logged, never fatal
// to the loop.
func (s *Scheduler) RunOnce(ctx context.Context) {
	log := s.log.Component("scheduler")

	known, err := s.Store.KnownTranscriptIDs()
	if err != nil {
		log.WithError(err).Warn("loading known transcript IDs failed")
		return
	}
	fresh, err := s.Source.FetchNewTranscripts(ctx, known)
	if err != nil {
		log.WithError(err).Warn("fetching new transcripts failed")
		return
	}
	if len(fresh) == 0 {
		log.Info("no new transcripts")
		return
	}

	result, err := s.Runner.ProcessList(ctx, fresh)
	if err != nil {
		log.WithError(err).Warn("scheduled run failed")
		if errors.Is(err, ErrRunInProgress) {
			return
		}
	}

	summary := "Scheduled analysis: " + result.Summary()
	log.Info(summary)
	if s.Notifier != nil {
		if err := s.Notifier.PostRunSummary(ctx, summary); err != nil {
			log.WithError(err).Warn("posting run summary failed")
		}
	}
}
