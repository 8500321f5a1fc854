package pkg

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// ClientIP returns the caller address, preferring proxy headers over the socket address.
func ClientIP(r *http.Request) (string, error) {
	addr := r.Header.Get("X-Real-Ip")
	if addr == "" {
		// first hop is the client, the rest are proxies
		addr, _, _ = strings.Cut(r.Header.Get("X-Forwarded-For"), ",")
		addr = strings.TrimSpace(addr)
	}
	if addr == "" {
		addr = r.RemoteAddr
	}

	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}

	if net.ParseIP(addr) == nil {
		return "", fmt.Errorf("ip addr %s is invalid", addr)
	}

	return addr, nil
}
