package utils

import (
	"net"
	"net/http"
	"strings"
)

// HostNoPort returns the host part of "ip:port", "[v6]:port", or a bare host.
func HostNoPort(s string) string {
	if s == "" {
		return ""
	}
	if h, _, err := net.SplitHostPort(s); err == nil {
		return h
	}
	return s
}

// ClientIP resolves the client IP. With trustProxy set it prefers the
// left-most X-Forwarded-For entry, then X-Real-IP; otherwise only
// RemoteAddr counts.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first := xff
			if i := strings.IndexByte(first, ','); i >= 0 {
				first = first[:i]
			}
			if ip := HostNoPort(strings.TrimSpace(first)); ip != "" {
				return ip
			}
		}
		if v := strings.TrimSpace(r.Header.Get("X-Real-IP")); v != "" {
			if ip := HostNoPort(v); ip != "" {
				return ip
			}
		}
	}
	return HostNoPort(r.RemoteAddr)
}

// IPMatcher matches exact IPs and CIDR ranges.
type IPMatcher struct {
	ips  []net.IP
	nets []*net.IPNet
}

func NewIPMatcher(list []string) *IPMatcher {
	m := &IPMatcher{}
	for _, raw := range list {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		if _, ipnet, err := net.ParseCIDR(s); err == nil {
			m.nets = append(m.nets, ipnet)
			continue
		}
		if ip := net.ParseIP(s); ip != nil {
			m.ips = append(m.ips, ip)
		}
	}
	return m
}

func (m *IPMatcher) IsEmpty() bool {
	return len(m.ips) == 0 && len(m.nets) == 0
}

func (m *IPMatcher) Allow(ipStr string) bool {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}
	for _, v := range m.ips {
		if v.Equal(ip) {
			return true
		}
	}
	for _, n := range m.nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
