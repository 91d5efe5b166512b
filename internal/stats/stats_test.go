package stats

import (
	"bytes"
	"strings"
	"testing"

	"ns3-trace-analyzer/internal/trace"
)

func parse(t *testing.T, lines ...string) []trace.Entry {
	t.Helper()
	var out []trace.Entry
	for _, l := range lines {
		e, err := trace.ParseLine(l)
		if err != nil {
			t.Fatalf("ParseLine: %v", err)
		}
		out = append(out, e)
	}
	return out
}

func TestSummarize(t *testing.T) {
	s := Summarize(parse(t,
		"t 0.5 /NodeList/0/DeviceList/0/Tx ns3::Ipv4Header (ttl 1 10.1.1.1 > 10.1.1.2)",
		"r 0.75 /NodeList/1/DeviceList/0/Rx ns3::Ipv4Header (ttl 1 10.1.1.1 > 10.1.1.2)",
		"t 1 /NodeList/0/DeviceList/0/Tx ns3::Ipv4Header (ttl 1 10.1.1.1 > 10.1.1.2)",
		"r 3 /NodeList/0/DeviceList/0/Rx ns3::Ipv4Header (ttl 1 10.1.1.2 > 10.1.1.1)",
		"",
	))
	if s.Entries != 5 {
		t.Fatalf("entries = %d", s.Entries)
	}
	if len(s.Events) != 2 || s.Events[0].Count != 2 || s.Events[0].Label != "Receive" {
		t.Fatalf("events = %+v", s.Events)
	}
	if len(s.Nodes) != 2 || s.Nodes[0] != (Count{Label: "N1", Count: 3}) {
		t.Fatalf("nodes = %+v", s.Nodes)
	}
	if len(s.Flows) != 2 || s.Flows[0] != (Flow{Src: "10.1.1.1", Dst: "10.1.1.2", Count: 3}) {
		t.Fatalf("flows = %+v", s.Flows)
	}
	if *s.FirstTime != 0.5 || *s.LastTime != 3 || s.Span() != 2.5 {
		t.Fatalf("span = %v..%v", *s.FirstTime, *s.LastTime)
	}

	var buf bytes.Buffer
	s.Print(&buf)
	if !strings.Contains(buf.String(), "10.1.1.1 -> 10.1.1.2  3") {
		t.Fatalf("report missing flow:\n%s", buf.String())
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.Entries != 0 || s.FirstTime != nil || s.Span() != 0 {
		t.Fatalf("unexpected summary: %+v", s)
	}
}
