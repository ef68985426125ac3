package clientip

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// proxyHeaders are checked in order. X-Forwarded-For may carry a chain, the
// leftmost valid address is the client.
var proxyHeaders = [...]string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

// GetIP returns the client address of r. Proxy headers win over RemoteAddr
// and malformed values are skipped. IPv4-mapped IPv6 addresses are unmapped.
func GetIP(r *http.Request) string {
	for _, h := range proxyHeaders {
		for candidate := range strings.SplitSeq(r.Header.Get(h), ",") {
			if ip, ok := normalize(candidate); ok {
				return ip
			}
		}
	}

	host := r.RemoteAddr
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	ip, _ := normalize(host)
	return ip
}

func normalize(s string) (string, bool) {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil {
		return "", false
	}
	return addr.Unmap().WithZone("").String(), true
}
