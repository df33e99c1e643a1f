package dnsprobe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/miekg/dns"
)

// Resolver is the "DNS transport factory" external collaborator spec.md
// keeps at interface level (§6): given a name and record type, it returns
// a response's answer records. A real implementation dials exactly one
// configured server; DnsProbe is the layer that fans out across many.
type Resolver interface {
	Query(ctx context.Context, name string, qtype uint16) (answers []dns.RR, err error)
}

// BuildResolvers constructs one typed Resolver per DnsServerSpec string, in
// input order. timeout bounds a single exchange (not counting retries,
// which DnsProbe layers on top).
func BuildResolvers(specs []string, timeout time.Duration) ([]Resolver, error) {
	resolvers := make([]Resolver, 0, len(specs))
	for _, raw := range specs {
		spec, err := ParseServerSpec(raw)
		if err != nil {
			return nil, err
		}
		resolvers = append(resolvers, newResolver(spec, timeout))
	}
	return resolvers, nil
}

func newResolver(spec ServerSpec, timeout time.Duration) Resolver {
	switch spec.Scheme {
	case SchemeHTTPS:
		return &dohResolver{endpoint: spec.URL, client: &http.Client{Timeout: timeout}}
	case SchemeTLS:
		return &dnsClientResolver{addr: spec.Addr(), client: &dns.Client{Net: "tcp-tls", Timeout: timeout}}
	case SchemeTCP:
		return &dnsClientResolver{addr: spec.Addr(), client: &dns.Client{Net: "tcp", Timeout: timeout}}
	default:
		return &dnsClientResolver{addr: spec.Addr(), client: &dns.Client{Net: "udp", Timeout: timeout}}
	}
}

// dnsClientResolver covers udp, tcp and tls via miekg/dns's dns.Client.
type dnsClientResolver struct {
	addr   string
	client *dns.Client
}

func (r *dnsClientResolver) Query(ctx context.Context, name string, qtype uint16) ([]dns.RR, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), qtype)
	msg.RecursionDesired = true
	in, _, err := r.client.ExchangeContext(ctx, msg, r.addr)
	if err != nil {
		return nil, err
	}
	if in == nil {
		return nil, fmt.Errorf("dnsprobe: nil response from %s", r.addr)
	}
	return in.Answer, nil
}

// dohResolver speaks DNS-over-HTTPS using the RFC 8484 wire format: a
// packed dns.Msg POSTed as application/dns-message and unpacked from the
// response body.
type dohResolver struct {
	endpoint string
	client   *http.Client
}

func (r *dohResolver) Query(ctx context.Context, name string, qtype uint16) ([]dns.RR, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), qtype)
	msg.RecursionDesired = true
	msg.Id = dns.Id()

	packed, err := msg.Pack()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(packed))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/dns-message")
	req.Header.Set("Accept", "application/dns-message")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dnsprobe: DoH %s returned status %d", r.endpoint, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return nil, err
	}

	in := new(dns.Msg)
	if err := in.Unpack(body); err != nil {
		return nil, err
	}
	return in.Answer, nil
}
