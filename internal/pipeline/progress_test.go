package pipeline

import (
	"strings"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestEstimator(t *testing.T) {
	start := time.Unix(0, 0)
	clk := &fakeClock{t: start}
	est := NewEstimator(100, start, clk.now)

	clk.t = start.Add(10 * time.Second)
	s := est.Observe(25)
	if s.Percent != 25 || s.Elapsed != 10*time.Second || s.Remaining != 30*time.Second {
		t.Fatalf("unexpected snapshot: %+v", s)
	}

	clk.t = start.Add(20 * time.Second)
	s = est.Observe(25)
	if s.Percent != 50 || s.Remaining != 20*time.Second {
		t.Fatalf("unexpected snapshot: %+v", s)
	}

	s = est.Observe(500)
	if s.Percent != 100 || s.Lines != 100 || s.Remaining != 0 {
		t.Fatalf("observe past total should clamp: %+v", s)
	}

	final := est.Complete()
	if final.Percent != 100 || !final.Done {
		t.Fatalf("unexpected final snapshot: %+v", final)
	}
}

func TestEstimatorNoProgressYet(t *testing.T) {
	start := time.Unix(0, 0)
	clk := &fakeClock{t: start.Add(time.Second)}
	s := NewEstimator(10, start, clk.now).Observe(0)
	if s.Percent != 0 || s.Remaining != 0 || s.Elapsed != time.Second {
		t.Fatalf("unexpected snapshot: %+v", s)
	}
}

func TestTracker(t *testing.T) {
	tr := NewTracker("run-1")
	if tr.Result() != nil {
		t.Fatalf("expected no result yet")
	}
	progress := MultiProgress(tr.Update, nil)
	progress(Snapshot{Percent: 40})
	if got := tr.Snapshot().Percent; got != 40 {
		t.Fatalf("percent = %v", got)
	}
	tr.SetResult(&Result{RunID: "run-1"})
	if tr.Result().RunID != tr.RunID() {
		t.Fatalf("run id mismatch")
	}
}

func TestScanLinesStripsCR(t *testing.T) {
	lines, err := ScanLines(strings.NewReader("t 1 a\r\nr 2 b\n\nlast"), 0)
	if err != nil {
		t.Fatalf("ScanLines: %v", err)
	}
	want := []string{"t 1 a", "r 2 b", "", "last"}
	if len(lines) != len(want) {
		t.Fatalf("lines = %q", lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestScanLinesCutsOversizedLines(t *testing.T) {
	input := strings.Repeat("x", 5000) + "\r\nshort\n" + strings.Repeat("y", 1024) + "\n"
	lines, err := ScanLines(strings.NewReader(input), 1024)
	if err != nil {
		t.Fatalf("ScanLines: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if len(lines[0]) != 1025 {
		t.Fatalf("oversized line kept %d bytes, want 1025", len(lines[0]))
	}
	if lines[1] != "short" || len(lines[2]) != 1024 {
		t.Fatalf("following lines damaged: %q, %d bytes", lines[1], len(lines[2]))
	}
}
