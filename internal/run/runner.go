package run

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"salesintel/internal/analyze"
	"salesintel/internal/logger"
	"salesintel/internal/transcript"
)

// ErrRunInProgress is returned by Start when another run holds the slot.
var ErrRunInProgress = errors.New("run: analysis already in progress")

// Source lists and resolves transcripts. List results may be summary-only;
// the runner fetches the full transcript before analysis.
type Source interface {
	FetchTranscript(ctx context.Context, id string) (*transcript.Transcript, error)
	FetchTranscriptsInRange(ctx context.Context, start, end time.Time) ([]transcript.Transcript, error)
}

// Store persists analysis records.
type Store interface {
	SaveRecord(rec *analyze.AnalysisRecord) (string, error)
	DeleteInRange(start, end time.Time) (int, error)
}

// Params select what a run covers.
type Params struct {
	Start time.Time
	End   time.Time
	// Reanalyze deletes existing records in the range before processing,
	// so a rerun replaces rather than duplicates.
	Reanalyze bool
}

// Result is the final accounting of a completed run.
type Result struct {
	Fetched   int
	Analyzed  int
	Skipped   int
	Deleted   int
	Errors    []string
	StartedAt time.Time
	Duration  time.Duration
}

// Summary is the one-line form posted to Slack and logged.
func (r Result) Summary() string {
	parts := []string{
		fmt.Sprintf("%d fetched", r.Fetched),
		fmt.Sprintf("%d analyzed", r.Analyzed),
	}
	if r.Skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", r.Skipped))
	}
	if r.Deleted > 0 {
		parts = append(parts, fmt.Sprintf("%d replaced", r.Deleted))
	}
	if len(r.Errors) > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", len(r.Errors)))
	}
	return strings.Join(parts, ", ")
}

// Runner executes analysis runs one at a time. All methods are safe for
// concurrent use; a second Start while one is active fails fast with
// ErrRunInProgress instead of queueing.
type Runner struct {
	source   Source
	store    Store
	analyzer *analyze.Analyzer
	state    tracker
	log      *logger.Logger

	// ExtraTitleMarkers extends the internal-call denylist.
	ExtraTitleMarkers []string
	// ItemDelay is the pause between transcripts, rate-limit politeness
	// toward the transcript API.
	ItemDelay time.Duration
}

func NewRunner(source Source, store Store, analyzer *analyze.Analyzer, log *logger.Logger) *Runner {
	return &Runner{
		source:   source,
		store:    store,
		analyzer: analyzer,
		log:      log,
	}
}

// Progress returns a snapshot of the active run, or an idle snapshot.
func (r *Runner) Progress() Progress {
	return r.state.snapshot()
}

// Start runs a full analysis pass synchronously. Per-transcript failures
// are collected in the result; only run-level failures (the slot being
// taken, the list fetch failing, context cancellation) return an error.
// The tracker always returns to idle, whatever happens.
func (r *Runner) Start(ctx context.Context, p Params) (Result, error) {
	if !r.state.tryStart() {
		return Result{}, ErrRunInProgress
	}
	defer r.state.finish()

	log := r.log.Component("run")
	result := Result{StartedAt: time.Now()}
	defer func() {
		result.Duration = time.Since(result.StartedAt)
	}()

	if p.Reanalyze {
		deleted, err := r.store.DeleteInRange(p.Start, p.End)
		if err != nil {
			return result, fmt.Errorf("clearing records for reanalysis: %w", err)
		}
		result.Deleted = deleted
		log.WithField("deleted", deleted).Info("cleared existing records for reanalysis")
	}

	listed, err := r.source.FetchTranscriptsInRange(ctx, p.Start, p.End)
	if err != nil {
		return result, fmt.Errorf("listing transcripts: %w", err)
	}
	err = r.processAll(ctx, listed, &result)
	return result, err
}

// ProcessList runs the analysis loop over an already fetched transcript
// list, for callers that select transcripts themselves (the scheduler).
// It competes for the same run slot as Start.
func (r *Runner) ProcessList(ctx context.Context, listed []transcript.Transcript) (Result, error) {
	if !r.state.tryStart() {
		return Result{}, ErrRunInProgress
	}
	defer r.state.finish()

	result := Result{StartedAt: time.Now()}
	defer func() {
		result.Duration = time.Since(result.StartedAt)
	}()
	err := r.processAll(ctx, listed, &result)
	return result, err
}

func (r *Runner) processAll(ctx context.Context, listed []transcript.Transcript, result *Result) error {
	log := r.log.Component("run")
	result.Fetched = len(listed)
	r.state.beginAnalysis(len(listed))
	log.WithField("count", len(listed)).Info("transcript list fetched")

	for i := range listed {
		t := &listed[i]
		r.state.startItem(i+1, t.Title)

		select {
		case <-ctx.Done():
			result.Errors = append(result.Errors, fmt.Sprintf("run cancelled after %d of %d", i, len(listed)))
			r.state.itemFailed(result.Errors[len(result.Errors)-1])
			return ctx.Err()
		default:
		}

		if err := r.processOne(ctx, t); err != nil {
			var skip *skipError
			if errors.As(err, &skip) {
				r.state.itemSkipped()
				result.Skipped++
				log.WithField("title", t.Title).Info(skip.reason)
				continue
			}
			msg := fmt.Sprintf("%s: %v", t.Title, err)
			r.state.itemFailed(msg)
			result.Errors = append(result.Errors, msg)
			log.WithError(err).WithField("title", t.Title).Warn("transcript analysis failed")
			continue
		}
		r.state.itemDone()
		result.Analyzed++

		if r.ItemDelay > 0 && i < len(listed)-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.ItemDelay):
			}
		}
	}

	log.WithField("summary", result.Summary()).Info("run complete")
	return nil
}

// skipError marks transcripts filtered out rather than failed.
type skipError struct {
	reason string
}

func (e *skipError) Error() string { return e.reason }

func (r *Runner) processOne(ctx context.Context, t *transcript.Transcript) error {
	if !transcript.IsSalesCall(t, r.ExtraTitleMarkers) {
		return &skipError{reason: "not a sales call"}
	}

	// List queries return metadata only; pull the sentences now.
	if t.SummaryOnly() {
		full, err := r.source.FetchTranscript(ctx, t.ID)
		if err != nil {
			return fmt.Errorf("fetching full transcript: %w", err)
		}
		if full == nil {
			return fmt.Errorf("transcript %s disappeared between list and fetch", t.ID)
		}
		t = full
	}

	// An empty transcript for a call that passed the sales filter is bad
	// input, not a skip; it lands in the run's error list.
	rec, err := r.analyzer.Analyze(t)
	if err != nil {
		return fmt.Errorf("analyzing: %w", err)
	}

	if _, err := r.store.SaveRecord(rec); err != nil {
		return fmt.Errorf("persisting record: %w", err)
	}
	return nil
}
