// Package dnsprobe implements DnsProbe (spec.md §4.3): a shuffled,
// confirmation-threshold race across a caller's DNS server list, each
// attempt retried with capped exponential backoff, using
// github.com/miekg/dns for wire-format exchange across udp/tcp/tls/https.
package dnsprobe

import (
	"fmt"
	"net/url"
	"strings"
)

// Scheme is a DnsServerSpec transport.
type Scheme string

const (
	SchemeUDP   Scheme = "udp"
	SchemeTCP   Scheme = "tcp"
	SchemeTLS   Scheme = "tls"
	SchemeHTTPS Scheme = "https"
)

// ServerSpec is a parsed DnsServerSpec: "[scheme \"://\"] host [\":\" port]".
// An empty scheme means udp. https schemes keep the full URL so the
// transport can use whatever path the server expects.
type ServerSpec struct {
	Scheme Scheme
	Host   string
	Port   string
	URL    string // only meaningful for https
}

// UnknownSchemeError is a programmer error: the factory fails synchronously
// (spec.md §7, "Programmer error") rather than silently falling back.
type UnknownSchemeError struct {
	Spec   string
	Scheme string
}

func (e *UnknownSchemeError) Error() string {
	return fmt.Sprintf("dnsprobe: unknown DnsServerSpec scheme %q in %q", e.Scheme, e.Spec)
}

// ParseServerSpec parses one DnsServerSpec string.
func ParseServerSpec(raw string) (ServerSpec, error) {
	s := strings.TrimSpace(raw)
	scheme := ""
	rest := s
	if i := strings.Index(s, "://"); i >= 0 {
		scheme = strings.ToLower(s[:i])
		rest = s[i+3:]
	}

	switch Scheme(scheme) {
	case "", SchemeUDP:
		host, port := splitHostPort(rest, "53")
		return ServerSpec{Scheme: SchemeUDP, Host: host, Port: port}, nil
	case SchemeTCP:
		host, port := splitHostPort(rest, "53")
		return ServerSpec{Scheme: SchemeTCP, Host: host, Port: port}, nil
	case SchemeTLS:
		host, port := splitHostPort(rest, "853")
		return ServerSpec{Scheme: SchemeTLS, Host: host, Port: port}, nil
	case SchemeHTTPS:
		u, err := url.Parse(s)
		if err != nil {
			return ServerSpec{}, fmt.Errorf("dnsprobe: invalid https DnsServerSpec %q: %w", raw, err)
		}
		return ServerSpec{Scheme: SchemeHTTPS, Host: u.Hostname(), Port: u.Port(), URL: s}, nil
	default:
		return ServerSpec{}, &UnknownSchemeError{Spec: raw, Scheme: scheme}
	}
}

func splitHostPort(s, defaultPort string) (host, port string) {
	if strings.HasPrefix(s, "[") {
		if i := strings.Index(s, "]"); i >= 0 {
			host = s[1:i]
			rest := s[i+1:]
			if strings.HasPrefix(rest, ":") {
				return host, rest[1:]
			}
			return host, defaultPort
		}
	}
	if i := strings.LastIndex(s, ":"); i >= 0 {
		return s[:i], s[i+1:]
	}
	return s, defaultPort
}

// Addr returns the "host:port" dial address for udp/tcp/tls resolvers.
func (s ServerSpec) Addr() string {
	host := s.Host
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	return host + ":" + s.Port
}
