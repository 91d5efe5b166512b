package trace

import (
	"regexp"
	"strconv"
)

const floatPattern = `(\d+(?:\.\d*)?|\.\d+)`

var (
	eventRe      = regexp.MustCompile(`(\w|[+\-])\s` + floatPattern)
	rateRe       = regexp.MustCompile(`(\w+Rate\w+)`)
	nodeDeviceRe = regexp.MustCompile(`/NodeList/(\d+)/DeviceList/(\d+)`)
	dottedQuadRe = regexp.MustCompile(`\d+\.\d+\.\d+\.\d+`)
)

// ExtractEvent finds the first single-character event code followed by its
// timestamp, e.g. "t 1.0023" or "r 2.5". The bare `t <float>` marker is the
// transmit case of the same pattern.
func ExtractEvent(line string) (code string, at float64, ok bool) {
	m := eventRe.FindStringSubmatch(line)
	if m == nil {
		return "", 0, false
	}
	v, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return "", 0, false
	}
	return m[1], v, true
}

// ExtractRate finds a WifiMode style token such as "OfdmRate6Mbps".
func ExtractRate(line string) (string, bool) {
	m := rateRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ExtractNodeDevice reads the node and device indices out of a
// /NodeList/<n>/DeviceList/<d> config path.
func ExtractNodeDevice(line string) (node, device int, ok bool) {
	m := nodeDeviceRe.FindStringSubmatch(line)
	if m == nil {
		return 0, 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, false
	}
	d, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, false
	}
	return n, d, true
}

// ExtractIPs returns the source and destination addresses of an IPv4 header
// span. Both are reported only when the span holds exactly two dotted quads.
func ExtractIPs(ipv4Header string) (src, dst string, ok bool) {
	ips := dottedQuadRe.FindAllString(ipv4Header, 3)
	if len(ips) != 2 {
		return "", "", false
	}
	return ips[0], ips[1], true
}
