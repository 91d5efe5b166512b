package trace

import (
	"regexp"
	"strings"
)

// HeaderKind identifies one protocol header printed in a trace line.
type HeaderKind int

const (
	HeaderMac HeaderKind = iota
	HeaderLlc
	HeaderIpv4
	HeaderUdp
	HeaderOlsrPacket
	HeaderOlsrMessage
)

// HeaderKinds lists every header kind in output column order.
var HeaderKinds = []HeaderKind{
	HeaderMac, HeaderLlc, HeaderIpv4, HeaderUdp, HeaderOlsrPacket, HeaderOlsrMessage,
}

type headerSpec struct {
	name string
	tag  string
	// nested headers may contain parenthesized sub-fields and need a
	// balanced scan; the others end at the first ')'.
	nested bool
	re     *regexp.Regexp
}

var headerSpecs = map[HeaderKind]headerSpec{
	HeaderMac:         simpleHeader("mac", "ns3::WifiMacHeader"),
	HeaderLlc:         simpleHeader("llc", "ns3::LlcSnapHeader"),
	HeaderIpv4:        {name: "ipv4", tag: "ns3::Ipv4Header", nested: true},
	HeaderUdp:         simpleHeader("udp", "ns3::UdpHeader"),
	HeaderOlsrPacket:  simpleHeader("olsr-packet", "ns3::olsr::PacketHeader"),
	HeaderOlsrMessage: simpleHeader("olsr-message", "ns3::olsr::MessageHeader"),
}

func simpleHeader(name, tag string) headerSpec {
	return headerSpec{
		name: name,
		tag:  tag,
		re:   regexp.MustCompile(regexp.QuoteMeta(tag) + ` \([^)]*\)`),
	}
}

func (k HeaderKind) String() string {
	if s, ok := headerSpecs[k]; ok {
		return s.name
	}
	return "unknown"
}

// Tag returns the literal type name that introduces the header.
func (k HeaderKind) Tag() string {
	return headerSpecs[k].tag
}

// ExtractHeader returns the verbatim span of the header of the given kind,
// from its tag through the closing parenthesis.
func ExtractHeader(line string, kind HeaderKind) (string, bool) {
	spec, ok := headerSpecs[kind]
	if !ok {
		return "", false
	}
	if spec.nested {
		return ScanBalanced(line, spec.tag)
	}
	m := spec.re.FindString(line)
	if m == "" {
		return "", false
	}
	return m, true
}

// ScanBalanced locates `tag (` in line and returns the span from the tag
// through the parenthesis that closes the opening one, counting nested
// groups on the way. An unterminated payload yields no value.
func ScanBalanced(line, tag string) (string, bool) {
	open := tag + " ("
	start := strings.Index(line, open)
	if start < 0 {
		return "", false
	}
	depth := 0
	for i := start + len(open) - 1; i < len(line); i++ {
		switch line[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return line[start : i+1], true
			}
		}
	}
	return "", false
}
