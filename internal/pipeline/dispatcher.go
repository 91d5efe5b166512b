package pipeline

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"ns3-trace-analyzer/internal/logging"
	"ns3-trace-analyzer/internal/trace"
)

// Defaults used when Options leaves a field zero.
const (
	DefaultChunkSize    = 10000
	DefaultWorkers      = 4
	DefaultMaxLineBytes = 4 << 20
)

// Options configures a parse run.
type Options struct {
	ChunkSize int
	Workers   int
	// Ordered resequences chunk results by chunk index. Without it entries
	// are appended in chunk completion order.
	Ordered      bool
	MaxLineBytes int
	RunID        string
	Parse        LineParser
	Progress     ProgressFunc
	Now          func() time.Time
}

func (o Options) withDefaults() Options {
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.MaxLineBytes <= 0 {
		o.MaxLineBytes = DefaultMaxLineBytes
	}
	if o.RunID == "" {
		o.RunID = uuid.NewString()
	}
	if o.Parse == nil {
		o.Parse = trace.ParseLine
	}
	o.Parse = LimitLength(o.Parse, o.MaxLineBytes)
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Result is the aggregate of one run.
type Result struct {
	RunID        string        `json:"run_id"`
	Entries      []trace.Entry `json:"-"`
	TotalLines   int           `json:"total_lines"`
	Chunks       int           `json:"chunks"`
	Skipped      int           `json:"skipped"`
	FailedChunks int           `json:"failed_chunks"`
	Elapsed      time.Duration `json:"elapsed"`
	Cancelled    bool          `json:"cancelled"`
}

// Dispatcher runs chunks of a trace on a bounded worker pool.
type Dispatcher struct {
	opts Options
}

// NewDispatcher returns a Dispatcher with zero options replaced by defaults.
func NewDispatcher(opts Options) *Dispatcher {
	return &Dispatcher{opts: opts.withDefaults()}
}

// Options returns the effective options.
func (d *Dispatcher) Options() Options { return d.opts }

// Run parses lines and returns the aggregated entries. Workers hand their
// chunk results to this goroutine over a channel, which is the only writer
// of the result and the only caller of the progress callback. A failed chunk
// is logged and whatever it produced is kept. When ctx is cancelled no new
// chunks are submitted and the partial result is returned with ctx.Err().
func (d *Dispatcher) Run(ctx context.Context, lines []string) (*Result, error) {
	log := logging.FromContext(ctx).With("run_id", d.opts.RunID)
	ctx = logging.NewContext(ctx, log)

	start := d.opts.Now()
	chunks := Partition(lines, d.opts.ChunkSize)
	est := NewEstimator(len(lines), start, d.opts.Now)
	res := &Result{
		RunID:      d.opts.RunID,
		TotalLines: len(lines),
		Chunks:     len(chunks),
		Entries:    make([]trace.Entry, 0, len(lines)),
	}
	log.Info("starting parse run", "lines", len(lines), "chunks", len(chunks), "workers", d.opts.Workers, "ordered", d.opts.Ordered)

	results := make(chan ChunkResult, d.opts.Workers)
	go d.submit(ctx, chunks, results, log)

	var seq *resequencer
	if d.opts.Ordered {
		seq = newResequencer()
	}
	for r := range results {
		res.Skipped += r.Skipped
		if r.Failed {
			res.FailedChunks++
		}
		if seq != nil {
			res.Entries = append(res.Entries, seq.push(r.Index, r.Entries)...)
		} else {
			res.Entries = append(res.Entries, r.Entries...)
		}
		d.notify(est.Observe(r.Processed))
	}
	if seq != nil {
		res.Entries = append(res.Entries, seq.drain()...)
	}
	res.Elapsed = d.opts.Now().Sub(start)

	if err := ctx.Err(); err != nil && est.Processed() < len(lines) {
		res.Cancelled = true
		log.Warn("parse run cancelled", "processed", est.Processed(), "entries", len(res.Entries))
		return res, err
	}

	d.notify(est.Complete())
	log.Info("parse run finished", "entries", len(res.Entries), "skipped", res.Skipped, "failed_chunks", res.FailedChunks, "elapsed", res.Elapsed)
	return res, nil
}

// submit schedules one task per chunk and closes out once every task is
// done. errgroup blocks Go while Workers tasks are in flight, so submission
// runs off the aggregating goroutine.
func (d *Dispatcher) submit(ctx context.Context, chunks []Chunk, out chan<- ChunkResult, log *slog.Logger) {
	var g errgroup.Group
	g.SetLimit(d.opts.Workers)
	for _, c := range chunks {
		if ctx.Err() != nil {
			log.Info("cancelled before submitting chunk", "chunk", c.Index, "remaining", len(chunks)-c.Index)
			break
		}
		g.Go(func() error {
			out <- d.work(ctx, c, log)
			return nil
		})
	}
	_ = g.Wait()
	close(out)
}

func (d *Dispatcher) work(ctx context.Context, c Chunk, log *slog.Logger) (r ChunkResult) {
	r = newChunkResult(c)
	defer func() {
		if p := recover(); p != nil {
			log.Error("chunk failed", "chunk", c.Index, "start", c.Start, "lines", len(c.Lines), "kept", len(r.Entries), "err", p)
			r.Failed = true
			r.Processed = len(c.Lines)
		}
	}()
	r.process(ctx, c, d.opts.Parse)
	return r
}

func (d *Dispatcher) notify(s Snapshot) {
	if d.opts.Progress != nil {
		d.opts.Progress(s)
	}
}

// resequencer releases chunk results in increasing chunk index order.
type resequencer struct {
	next    int
	pending map[int][]trace.Entry
}

func newResequencer() *resequencer {
	return &resequencer{pending: make(map[int][]trace.Entry)}
}

func (s *resequencer) push(idx int, entries []trace.Entry) []trace.Entry {
	s.pending[idx] = entries
	var out []trace.Entry
	for {
		e, ok := s.pending[s.next]
		if !ok {
			return out
		}
		out = append(out, e...)
		delete(s.pending, s.next)
		s.next++
	}
}

// drain flushes what is left after a cancelled run, still in index order.
func (s *resequencer) drain() []trace.Entry {
	idx := make([]int, 0, len(s.pending))
	for i := range s.pending {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	var out []trace.Entry
	for _, i := range idx {
		out = append(out, s.pending[i]...)
	}
	s.pending = map[int][]trace.Entry{}
	return out
}
