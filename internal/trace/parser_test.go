package trace

import (
	"testing"
)

const wifiTxLine = "t 1.00216 /NodeList/0/DeviceList/1/$ns3::WifiNetDevice/Phy/State/Tx DsssRate1Mbps " +
	"ns3::WifiMacHeader (DATA ToDS=0, FromDS=0, MoreFrag=0, Retry=0, MoreData=0 Duration/ID=0us, DA=ff:ff:ff:ff:ff:ff, SA=00:00:00:00:00:01, BSSID=00:00:00:00:00:01, FragNumber=0, SeqNumber=0) " +
	"ns3::LlcSnapHeader (type 0x800) " +
	"ns3::Ipv4Header (tos 0x0 DSCP Default ECN Not-ECT ttl 1 id 0 protocol 17 offset (bytes) 0 flags [none] length: 76 10.1.1.1 > 10.1.1.255) " +
	"ns3::UdpHeader (length: 56 698 > 698) " +
	"ns3::olsr::PacketHeader (len=48 seqNumber=0) " +
	"ns3::olsr::MessageHeader (type=HELLO TTL=1 origAddr=10.1.1.1) " +
	"ns3::WifiMacTrailer ()"

func TestParseLineFullGrammar(t *testing.T) {
	e, err := ParseLine(wifiTxLine)
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	if e.EventType == nil || *e.EventType != "t" {
		t.Fatalf("event type = %v, want t", e.EventType)
	}
	if e.Time == nil || *e.Time != 1.00216 {
		t.Fatalf("time = %v, want 1.00216", e.Time)
	}
	if e.Rate == nil || *e.Rate != "DsssRate1Mbps" {
		t.Fatalf("rate = %v", e.Rate)
	}
	if e.Node == nil || *e.Node != 0 || e.Device == nil || *e.Device != 1 {
		t.Fatalf("node/device = %v/%v", e.Node, e.Device)
	}
	wantIPv4 := "ns3::Ipv4Header (tos 0x0 DSCP Default ECN Not-ECT ttl 1 id 0 protocol 17 offset (bytes) 0 flags [none] length: 76 10.1.1.1 > 10.1.1.255)"
	if e.Ipv4Header == nil || *e.Ipv4Header != wantIPv4 {
		t.Fatalf("ipv4 header = %v", e.Ipv4Header)
	}
	if e.SrcIP == nil || *e.SrcIP != "10.1.1.1" || e.DstIP == nil || *e.DstIP != "10.1.1.255" {
		t.Fatalf("src/dst = %v/%v", e.SrcIP, e.DstIP)
	}
	checks := map[string]*string{
		"ns3::LlcSnapHeader (type 0x800)":                               e.LlcHeader,
		"ns3::UdpHeader (length: 56 698 > 698)":                         e.UdpHeader,
		"ns3::olsr::PacketHeader (len=48 seqNumber=0)":                  e.OlsrPacketHeader,
		"ns3::olsr::MessageHeader (type=HELLO TTL=1 origAddr=10.1.1.1)": e.OlsrMessageHeader,
	}
	for want, got := range checks {
		if got == nil || *got != want {
			t.Errorf("header = %v, want %q", got, want)
		}
	}
	if e.MacHeader == nil || (*e.MacHeader)[:len("ns3::WifiMacHeader (DATA")] != "ns3::WifiMacHeader (DATA" {
		t.Errorf("mac header = %v", e.MacHeader)
	}
}

func TestParseLineIdempotent(t *testing.T) {
	a, err := ParseLine(wifiTxLine)
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	b, err := ParseLine(wifiTxLine)
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	if !a.Equal(b) {
		t.Fatalf("re-parse differs: %+v vs %+v", a, b)
	}
}

func TestParseLineFieldsIndependent(t *testing.T) {
	cases := []struct {
		name  string
		line  string
		check func(t *testing.T, e Entry)
	}{
		{
			name: "empty",
			line: "",
			check: func(t *testing.T, e Entry) {
				if !e.Equal(Entry{}) {
					t.Fatalf("expected empty entry, got %+v", e)
				}
			},
		},
		{
			name: "node only",
			line: "garbage /NodeList/7/DeviceList/2/Mac",
			check: func(t *testing.T, e Entry) {
				if e.Node == nil || *e.Node != 7 || e.Device == nil || *e.Device != 2 {
					t.Fatalf("node/device = %v/%v", e.Node, e.Device)
				}
				if e.EventType != nil || e.Rate != nil || e.Ipv4Header != nil {
					t.Fatalf("unexpected fields: %+v", e)
				}
			},
		},
		{
			name: "receive with udp only",
			line: "r 2.5 /NodeList/1/DeviceList/0/Rx ns3::UdpHeader (length: 12 49153 > 9)",
			check: func(t *testing.T, e Entry) {
				if e.EventType == nil || *e.EventType != "r" || e.Time == nil || *e.Time != 2.5 {
					t.Fatalf("event = %v @ %v", e.EventType, e.Time)
				}
				if e.UdpHeader == nil || e.Ipv4Header != nil || e.SrcIP != nil {
					t.Fatalf("unexpected headers: %+v", e)
				}
			},
		},
		{
			name: "unbalanced ipv4 keeps other headers",
			line: "t 3 ns3::LlcSnapHeader (type 0x806) ns3::Ipv4Header (ttl 64 (x 10.0.0.1 > 10.0.0.2",
			check: func(t *testing.T, e Entry) {
				if e.Ipv4Header != nil || e.SrcIP != nil || e.DstIP != nil {
					t.Fatalf("expected no ipv4 data, got %+v", e)
				}
				if e.LlcHeader == nil {
					t.Fatalf("llc header missing")
				}
			},
		},
		{
			name: "transmit marker after noise",
			line: "-- t 0.75",
			check: func(t *testing.T, e Entry) {
				if e.Time == nil || *e.Time != 0.75 || e.EventType == nil || *e.EventType != EventTransmit {
					t.Fatalf("event = %v @ %v", e.EventType, e.Time)
				}
			},
		},
		{
			name: "enqueue event",
			line: "+ 0.5 /NodeList/0/DeviceList/0/$ns3::PointToPointNetDevice/TxQueue/Enqueue",
			check: func(t *testing.T, e Entry) {
				if e.EventType == nil || *e.EventType != EventEnqueue {
					t.Fatalf("event = %v", e.EventType)
				}
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e, err := ParseLine(tc.line)
			if err != nil {
				t.Fatalf("ParseLine: %v", err)
			}
			tc.check(t, e)
		})
	}
}

func TestParseLineUnreadable(t *testing.T) {
	if _, err := ParseLine("t 1.0 \xff\xfe"); err != ErrUnreadableLine {
		t.Fatalf("err = %v, want ErrUnreadableLine", err)
	}
}

func TestExtractIPs(t *testing.T) {
	cases := []struct {
		header   string
		src, dst string
		ok       bool
	}{
		{"ns3::Ipv4Header (ttl 64 10.0.0.1 > 10.0.0.2)", "10.0.0.1", "10.0.0.2", true},
		{"ns3::Ipv4Header (ttl 64)", "", "", false},
		{"ns3::Ipv4Header (10.0.0.1)", "", "", false},
		{"ns3::Ipv4Header (10.0.0.1 > 10.0.0.2 via 10.0.0.3)", "", "", false},
	}
	for _, tc := range cases {
		src, dst, ok := ExtractIPs(tc.header)
		if ok != tc.ok || src != tc.src || dst != tc.dst {
			t.Errorf("ExtractIPs(%q) = %q,%q,%v want %q,%q,%v", tc.header, src, dst, ok, tc.src, tc.dst, tc.ok)
		}
	}
}
