// Parsed ns-3 ASCII trace events
package trace

// Event type codes emitted by the ns-3 ASCII tracer.
const (
	EventTransmit = "t"
	EventReceive  = "r"
	EventDequeue  = "-"
	EventEnqueue  = "+"
	EventDrop     = "d"
)

// Entry is one parsed trace line. Every field is optional and parsed
// independently of the others; nil means the field was not found.
type Entry struct {
	Time              *float64 `json:"time,omitempty"`
	EventType         *string  `json:"event_type,omitempty"`
	Rate              *string  `json:"rate,omitempty"`
	Node              *int     `json:"node,omitempty"`
	Device            *int     `json:"device,omitempty"`
	MacHeader         *string  `json:"mac_header,omitempty"`
	LlcHeader         *string  `json:"llc_header,omitempty"`
	Ipv4Header        *string  `json:"ipv4_header,omitempty"`
	UdpHeader         *string  `json:"udp_header,omitempty"`
	OlsrPacketHeader  *string  `json:"olsr_packet_header,omitempty"`
	OlsrMessageHeader *string  `json:"olsr_message_header,omitempty"`
	SrcIP             *string  `json:"src_ip,omitempty"`
	DstIP             *string  `json:"dst_ip,omitempty"`
}

// Equal reports whether two entries carry the same field values.
func (e Entry) Equal(o Entry) bool {
	return eqPtr(e.Time, o.Time) &&
		eqPtr(e.EventType, o.EventType) &&
		eqPtr(e.Rate, o.Rate) &&
		eqPtr(e.Node, o.Node) &&
		eqPtr(e.Device, o.Device) &&
		eqPtr(e.MacHeader, o.MacHeader) &&
		eqPtr(e.LlcHeader, o.LlcHeader) &&
		eqPtr(e.Ipv4Header, o.Ipv4Header) &&
		eqPtr(e.UdpHeader, o.UdpHeader) &&
		eqPtr(e.OlsrPacketHeader, o.OlsrPacketHeader) &&
		eqPtr(e.OlsrMessageHeader, o.OlsrMessageHeader) &&
		eqPtr(e.SrcIP, o.SrcIP) &&
		eqPtr(e.DstIP, o.DstIP)
}

// Header returns the raw header span for kind, if present.
func (e Entry) Header(kind HeaderKind) (string, bool) {
	var p *string
	switch kind {
	case HeaderMac:
		p = e.MacHeader
	case HeaderLlc:
		p = e.LlcHeader
	case HeaderIpv4:
		p = e.Ipv4Header
	case HeaderUdp:
		p = e.UdpHeader
	case HeaderOlsrPacket:
		p = e.OlsrPacketHeader
	case HeaderOlsrMessage:
		p = e.OlsrMessageHeader
	}
	if p == nil {
		return "", false
	}
	return *p, true
}

func eqPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func ptr[T any](v T) *T { return &v }
