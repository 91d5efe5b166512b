// Package stats aggregates parsed entries into per-event, per-node and
// per-flow counts.
package stats

import (
	"cmp"
	"fmt"
	"io"
	"slices"

	"ns3-trace-analyzer/internal/export"
	"ns3-trace-analyzer/internal/trace"
)

// Count is one labelled tally.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Flow tallies entries between a source and destination address.
type Flow struct {
	Src   string `json:"src"`
	Dst   string `json:"dst"`
	Count int    `json:"count"`
}

// Summary is the aggregate view of a run.
type Summary struct {
	Entries   int      `json:"entries"`
	Events    []Count  `json:"events"`
	Nodes     []Count  `json:"nodes"`
	Flows     []Flow   `json:"flows"`
	FirstTime *float64 `json:"first_time,omitempty"`
	LastTime  *float64 `json:"last_time,omitempty"`
}

type flowKey struct{ src, dst string }

// Summarize tallies entries. Counts are sorted by descending count, then
// label. Entries without an event or node are not tallied under those keys.
func Summarize(entries []trace.Entry) Summary {
	events := map[string]int{}
	nodes := map[string]int{}
	flows := map[flowKey]int{}
	s := Summary{Entries: len(entries)}

	for _, e := range entries {
		if e.EventType != nil {
			events[export.EventLabel(*e.EventType)]++
		}
		if e.Node != nil {
			nodes[export.NodeLabel(*e.Node)]++
		}
		if e.SrcIP != nil && e.DstIP != nil {
			flows[flowKey{*e.SrcIP, *e.DstIP}]++
		}
		if e.Time != nil {
			t := *e.Time
			if s.FirstTime == nil || t < *s.FirstTime {
				s.FirstTime = &t
			}
			if s.LastTime == nil || t > *s.LastTime {
				v := t
				s.LastTime = &v
			}
		}
	}

	s.Events = counts(events)
	s.Nodes = counts(nodes)
	for k, n := range flows {
		s.Flows = append(s.Flows, Flow{Src: k.src, Dst: k.dst, Count: n})
	}
	slices.SortFunc(s.Flows, func(a, b Flow) int {
		return cmp.Or(cmp.Compare(b.Count, a.Count), cmp.Compare(a.Src, b.Src), cmp.Compare(a.Dst, b.Dst))
	})
	return s
}

func counts(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for label, n := range m {
		out = append(out, Count{Label: label, Count: n})
	}
	slices.SortFunc(out, func(a, b Count) int {
		return cmp.Or(cmp.Compare(b.Count, a.Count), cmp.Compare(a.Label, b.Label))
	})
	return out
}

// Span returns the simulated seconds between the first and last entry.
func (s Summary) Span() float64 {
	if s.FirstTime == nil || s.LastTime == nil {
		return 0
	}
	return *s.LastTime - *s.FirstTime
}

// Print writes a plain-text report to w.
func (s Summary) Print(w io.Writer) {
	fmt.Fprintf(w, "Entries: %d\n", s.Entries)
	if s.FirstTime != nil {
		fmt.Fprintf(w, "Time span: %gs (%g .. %g)\n", s.Span(), *s.FirstTime, *s.LastTime)
	}
	fmt.Fprintln(w, "\nEvents:")
	for _, c := range s.Events {
		fmt.Fprintf(w, "  %-10s %d\n", c.Label, c.Count)
	}
	fmt.Fprintln(w, "\nNodes:")
	for _, c := range s.Nodes {
		fmt.Fprintf(w, "  %-10s %d\n", c.Label, c.Count)
	}
	fmt.Fprintln(w, "\nFlows:")
	for _, f := range s.Flows {
		fmt.Fprintf(w, "  %s -> %s  %d\n", f.Src, f.Dst, f.Count)
	}
}
