package export

import (
	"fmt"
	"strconv"

	"ns3-trace-analyzer/internal/trace"
)

// Header is the fixed column row of tabular exports.
var Header = []string{
	"Time", "Event Type", "Rate", "Node", "Source IP", "Destination IP", "Device",
	"Mac Header", "LLC Header", "IPv4 Header", "UDP Header", "OLSR Packet Header", "OLSR Message Header",
}

// EventLabel expands the transmit and receive codes; other codes are shown
// as they appear in the trace.
func EventLabel(code string) string {
	switch code {
	case trace.EventTransmit:
		return "Transmit"
	case trace.EventReceive:
		return "Receive"
	default:
		return code
	}
}

// NodeLabel renders a zero-based node index as the one-based "N<k>" name.
func NodeLabel(node int) string {
	return fmt.Sprintf("N%d", node+1)
}

// Row renders e as display strings in Header order. Absent fields are empty.
func Row(e trace.Entry) []string {
	row := make([]string, 0, len(Header))
	row = append(row,
		floatCell(e.Time),
		strCell(e.EventType, EventLabel),
		strCell(e.Rate, nil),
		intCell(e.Node, NodeLabel),
		strCell(e.SrcIP, nil),
		strCell(e.DstIP, nil),
		intCell(e.Device, strconv.Itoa),
		strCell(e.MacHeader, nil),
		strCell(e.LlcHeader, nil),
		strCell(e.Ipv4Header, nil),
		strCell(e.UdpHeader, nil),
		strCell(e.OlsrPacketHeader, nil),
		strCell(e.OlsrMessageHeader, nil),
	)
	return row
}

func floatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func strCell(v *string, label func(string) string) string {
	if v == nil {
		return ""
	}
	if label != nil {
		return label(*v)
	}
	return *v
}

func intCell(v *int, label func(int) string) string {
	if v == nil {
		return ""
	}
	return label(*v)
}
