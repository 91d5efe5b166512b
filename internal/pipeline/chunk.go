// Package pipeline splits a trace into chunks, parses them on a bounded
// worker pool and aggregates the entries while reporting progress.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"ns3-trace-analyzer/internal/logging"
	"ns3-trace-analyzer/internal/trace"
)

// LineParser turns one raw line into an entry.
type LineParser func(line string) (trace.Entry, error)

// ErrLineTooLong is returned for lines over Options.MaxLineBytes. Such lines
// are skipped like any other unparseable line.
var ErrLineTooLong = errors.New("line exceeds maximum length")

// LimitLength wraps parse so that lines longer than maxBytes fail with
// ErrLineTooLong instead of being parsed.
func LimitLength(parse LineParser, maxBytes int) LineParser {
	return func(line string) (trace.Entry, error) {
		if len(line) > maxBytes {
			return trace.Entry{}, fmt.Errorf("%w: %d bytes", ErrLineTooLong, len(line))
		}
		return parse(line)
	}
}

// Chunk is a contiguous run of input lines. Start is the zero-based index of
// the first line in the whole input.
type Chunk struct {
	Index int
	Start int
	Lines []string
}

// ChunkResult carries the entries parsed from one chunk in line order.
type ChunkResult struct {
	Index     int
	Start     int
	Entries   []trace.Entry
	Processed int
	Skipped   int
	Failed    bool
}

// Partition splits lines into ceil(len(lines)/size) chunks. The chunks share
// the backing array of lines.
func Partition(lines []string, size int) []Chunk {
	if size <= 0 {
		size = DefaultChunkSize
	}
	chunks := make([]Chunk, 0, (len(lines)+size-1)/size)
	for start := 0; start < len(lines); start += size {
		end := min(start+size, len(lines))
		chunks = append(chunks, Chunk{
			Index: len(chunks),
			Start: start,
			Lines: lines[start:end:end],
		})
	}
	return chunks
}

// ProcessChunk parses every line of c. A line whose parse fails or panics is
// logged with its file line number and skipped. Cancellation of ctx is
// checked before each line; the entries parsed so far are returned.
func ProcessChunk(ctx context.Context, c Chunk, parse LineParser) ChunkResult {
	r := newChunkResult(c)
	r.process(ctx, c, parse)
	return r
}

func newChunkResult(c Chunk) ChunkResult {
	return ChunkResult{
		Index:   c.Index,
		Start:   c.Start,
		Entries: make([]trace.Entry, 0, len(c.Lines)),
	}
}

func (r *ChunkResult) process(ctx context.Context, c Chunk, parse LineParser) {
	log := logging.FromContext(ctx)
	for i, line := range c.Lines {
		if ctx.Err() != nil {
			return
		}
		entry, err := parseLine(parse, line)
		r.Processed++
		if err != nil {
			r.Skipped++
			log.Warn("skipping unparseable line", "line", c.Start+i+1, "chunk", c.Index, "err", err)
			continue
		}
		r.Entries = append(r.Entries, entry)
	}
}

func parseLine(parse LineParser, line string) (e trace.Entry, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("parser panic: %v", p)
		}
	}()
	return parse(line)
}
