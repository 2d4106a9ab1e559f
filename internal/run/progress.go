// Package run orchestrates batch analysis of call transcripts: one run at
// a time, per-call failure isolation, and live progress reporting.
package run

import "sync"

// Phase is the coarse state of the orchestrator.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseFetching  Phase = "fetching"
	PhaseAnalyzing Phase = "analyzing"
)

// active reports whether the phase belongs to a running analysis. The zero
// Phase counts as idle so an unstarted tracker accepts its first run.
func (p Phase) active() bool {
	return p != "" && p != PhaseIdle
}

// Progress is a point-in-time snapshot of a run. Snapshots are values;
// mutating one never touches the tracker.
type Progress struct {
	Phase     Phase
	Current   int
	Total     int
	Label     string // title of the call being processed
	Completed int
	Skipped   int
	Errors    []string
}

// InProgress reports whether a run is active.
func (p Progress) InProgress() bool {
	return p.Phase.active()
}

// tracker guards the run state. All writers go through its methods.
type tracker struct {
	mu  sync.Mutex
	cur Progress
}

func (t *tracker) snapshot() Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	p := t.cur
	p.Errors = append([]string(nil), t.cur.Errors...)
	return p
}

// tryStart flips the tracker to fetching if no run is active.
func (t *tracker) tryStart() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cur.Phase.active() {
		return false
	}
	t.cur = Progress{Phase: PhaseFetching}
	return true
}

func (t *tracker) beginAnalysis(total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cur.Phase = PhaseAnalyzing
	t.cur.Total = total
}

func (t *tracker) startItem(index int, label string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cur.Current = index
	t.cur.Label = label
}

func (t *tracker) itemDone() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cur.Completed++
}

func (t *tracker) itemSkipped() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cur.Skipped++
}

func (t *tracker) itemFailed(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cur.Errors = append(t.cur.Errors, msg)
}

// finish returns the final snapshot and resets the tracker to idle.
func (t *tracker) finish() Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	final := t.cur
	final.Phase = PhaseIdle
	final.Label = ""
	t.cur = Progress{Phase: PhaseIdle}
	return final
}
