package trace

import (
	"errors"
	"unicode/utf8"
)

// ErrUnreadableLine is returned for lines that are not valid text.
var ErrUnreadableLine = errors.New("line is not valid UTF-8 text")

// ParseLine builds an Entry from one raw trace line. Missing or malformed
// fields are left nil; only an unreadable line is an error.
func ParseLine(line string) (Entry, error) {
	if !utf8.ValidString(line) {
		return Entry{}, ErrUnreadableLine
	}

	var e Entry
	if code, at, ok := ExtractEvent(line); ok {
		e.EventType = ptr(code)
		e.Time = ptr(at)
	}
	if rate, ok := ExtractRate(line); ok {
		e.Rate = ptr(rate)
	}
	if node, dev, ok := ExtractNodeDevice(line); ok {
		e.Node = ptr(node)
		e.Device = ptr(dev)
	}

	for _, kind := range HeaderKinds {
		h, ok := ExtractHeader(line, kind)
		if !ok {
			continue
		}
		switch kind {
		case HeaderMac:
			e.MacHeader = ptr(h)
		case HeaderLlc:
			e.LlcHeader = ptr(h)
		case HeaderIpv4:
			e.Ipv4Header = ptr(h)
		case HeaderUdp:
			e.UdpHeader = ptr(h)
		case HeaderOlsrPacket:
			e.OlsrPacketHeader = ptr(h)
		case HeaderOlsrMessage:
			e.OlsrMessageHeader = ptr(h)
		}
	}

	if e.Ipv4Header != nil {
		if src, dst, ok := ExtractIPs(*e.Ipv4Header); ok {
			e.SrcIP = ptr(src)
			e.DstIP = ptr(dst)
		}
	}
	return e, nil
}
