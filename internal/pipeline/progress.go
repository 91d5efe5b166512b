package pipeline

import (
	"sync"
	"time"
)

const (
	minFraction  = 1e-9
	maxRemaining = time.Duration(1 << 62)
)

// Snapshot is one progress notification.
type Snapshot struct {
	Percent   float64       `json:"percent"`
	Elapsed   time.Duration `json:"elapsed"`
	Remaining time.Duration `json:"remaining"`
	Lines     int           `json:"lines"`
	Total     int           `json:"total"`
	Done      bool          `json:"done"`
}

// ProgressFunc receives progress notifications. It is always called from the
// aggregating goroutine, never concurrently.
type ProgressFunc func(Snapshot)

// MultiProgress fans a notification out to every non-nil fn.
func MultiProgress(fns ...ProgressFunc) ProgressFunc {
	return func(s Snapshot) {
		for _, fn := range fns {
			if fn != nil {
				fn(s)
			}
		}
	}
}

// Estimator derives percent complete and ETA from the running count of
// processed lines, assuming uniform throughput per line. Remaining stays zero
// until the first lines are done.
type Estimator struct {
	total int
	done  int
	start time.Time
	now   func() time.Time
}

// NewEstimator starts an estimate for total lines at start.
func NewEstimator(total int, start time.Time, now func() time.Time) *Estimator {
	if now == nil {
		now = time.Now
	}
	return &Estimator{total: total, start: start, now: now}
}

// Observe records lines more processed lines and returns the new estimate.
func (e *Estimator) Observe(lines int) Snapshot {
	if lines > 0 {
		e.done = min(e.done+lines, e.total)
	}
	elapsed := e.now().Sub(e.start)
	if e.total == 0 {
		return Snapshot{Percent: 100, Elapsed: elapsed}
	}
	frac := float64(e.done) / float64(e.total)
	var remaining time.Duration
	if e.done > 0 {
		estimatedTotal := float64(elapsed) / max(frac, minFraction)
		remaining = time.Duration(min(estimatedTotal-float64(elapsed), float64(maxRemaining)))
		remaining = max(remaining, 0)
	}
	return Snapshot{
		Percent:   frac * 100,
		Elapsed:   elapsed,
		Remaining: remaining,
		Lines:     e.done,
		Total:     e.total,
	}
}

// Complete returns the terminal 100% notification.
func (e *Estimator) Complete() Snapshot {
	return Snapshot{
		Percent: 100,
		Elapsed: e.now().Sub(e.start),
		Lines:   e.total,
		Total:   e.total,
		Done:    true,
	}
}

// Processed reports how many lines have been observed.
func (e *Estimator) Processed() int { return e.done }

// Tracker keeps the latest snapshot and result of a run for pollers such as
// the status server.
type Tracker struct {
	mu     sync.RWMutex
	runID  string
	snap   Snapshot
	result *Result
}

// NewTracker returns a tracker for the run identified by runID.
func NewTracker(runID string) *Tracker {
	return &Tracker{runID: runID}
}

// Update stores s as the latest snapshot.
func (t *Tracker) Update(s Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap = s
}

// SetResult stores the finished run.
func (t *Tracker) SetResult(r *Result) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.result = r
}

// Snapshot returns the latest progress snapshot.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snap
}

// Result returns the finished run or nil while it is still in flight.
func (t *Tracker) Result() *Result {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.result
}

// RunID returns the identifier of the tracked run.
func (t *Tracker) RunID() string { return t.runID }
