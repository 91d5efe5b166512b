package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"ns3-trace-analyzer/internal/logging"
	"ns3-trace-analyzer/internal/trace"
)

func makeLines(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("t %d.5 /NodeList/%d/DeviceList/0/Tx", i, i%7)
	}
	return lines
}

func TestPartition(t *testing.T) {
	cases := []struct {
		n, size, want int
	}{
		{25000, 10000, 3},
		{20000, 10000, 2},
		{1, 10000, 1},
		{0, 10000, 0},
		{7, 3, 3},
	}
	for _, tc := range cases {
		lines := makeLines(tc.n)
		chunks := Partition(lines, tc.size)
		if len(chunks) != tc.want {
			t.Fatalf("Partition(%d,%d) = %d chunks, want %d", tc.n, tc.size, len(chunks), tc.want)
		}
		var joined []string
		for i, c := range chunks {
			if c.Index != i {
				t.Fatalf("chunk %d has index %d", i, c.Index)
			}
			if c.Start != len(joined) {
				t.Fatalf("chunk %d start = %d, want %d", i, c.Start, len(joined))
			}
			joined = append(joined, c.Lines...)
		}
		if strings.Join(joined, "\n") != strings.Join(lines, "\n") {
			t.Fatalf("concatenated chunks differ from input for n=%d size=%d", tc.n, tc.size)
		}
	}
}

func TestPartitionChunksDoNotAlias(t *testing.T) {
	lines := makeLines(4)
	chunks := Partition(lines, 2)
	_ = append(chunks[0].Lines, "extra")
	if lines[2] == "extra" {
		t.Fatalf("appending to a chunk overwrote the next chunk")
	}
}

func TestProcessChunk(t *testing.T) {
	c := Chunk{Index: 2, Start: 20, Lines: []string{
		"t 1.0 /NodeList/0/DeviceList/0",
		"r 2.0 \xff",
		"",
		"r 3.0 /NodeList/1/DeviceList/0",
	}}
	ctx := logging.NewContext(context.Background(), logging.Discard())
	r := ProcessChunk(ctx, c, trace.ParseLine)
	if len(r.Entries) != 3 || r.Skipped != 1 || r.Processed != 4 {
		t.Fatalf("entries=%d skipped=%d processed=%d", len(r.Entries), r.Skipped, r.Processed)
	}
	if len(r.Entries) > len(c.Lines) {
		t.Fatalf("more entries than lines")
	}
	if *r.Entries[0].Time != 1.0 || *r.Entries[2].Time != 3.0 {
		t.Fatalf("entries out of line order: %+v", r.Entries)
	}
}

func TestProcessChunkIsolatesPanics(t *testing.T) {
	parse := func(line string) (trace.Entry, error) {
		switch line {
		case "panic":
			panic("boom")
		case "error":
			return trace.Entry{}, errors.New("bad line")
		}
		return trace.ParseLine(line)
	}
	c := Chunk{Lines: []string{"t 1 a", "panic", "t 2 b", "error", "t 3 c"}}
	ctx := logging.NewContext(context.Background(), logging.Discard())
	r := ProcessChunk(ctx, c, parse)
	if len(r.Entries) != 3 || r.Skipped != 2 {
		t.Fatalf("entries=%d skipped=%d", len(r.Entries), r.Skipped)
	}
}

func TestProcessChunkCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(logging.NewContext(context.Background(), logging.Discard()))
	cancel()
	r := ProcessChunk(ctx, Chunk{Lines: makeLines(10)}, trace.ParseLine)
	if len(r.Entries) != 0 || r.Processed != 0 {
		t.Fatalf("expected no work after cancel, got %d entries", len(r.Entries))
	}
}
