package whoisheuristic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openrdap/rdap/bootstrap"

	whois "github.com/domainr/whois"
)

// QueryOptions carries the WhoisHeuristic-derived hint and the family/
// follow passthrough options spec.md §6 lists for the WHOIS/RDAP client.
type QueryOptions struct {
	Host    string
	Timeout time.Duration
	Family  *int
	Follow  *int
}

// Client is the "WHOIS/RDAP client" external collaborator spec.md keeps
// at interface level (§1, §6): it produces a possibly-nested Node tree,
// with errors whose message WhoisHeuristic substring-classifies (§4.4).
type Client interface {
	Query(ctx context.Context, apex string, opts QueryOptions) (*Node, error)
}

// Fetcher performs one raw WHOIS wire query at host. The default is
// whoisFetchAtHost, built on github.com/domainr/whois.
type Fetcher func(ctx context.Context, query, host string) (string, error)

// bootstrapLookuper is the single method DefaultClient needs off
// *bootstrap.Client, pulled out as an interface so tests can substitute a
// stub without talking to the real RDAP bootstrap registry.
type bootstrapLookuper interface {
	Lookup(q *bootstrap.Question) (*bootstrap.Answer, error)
}

// DefaultClient is the default Client: it chases referrals by following
// an IANA bootstrap refer host, then a "Registrar WHOIS Server" referral
// found in that body, folding both hops into one Node tree instead of a
// typed Registration struct.
type DefaultClient struct {
	Fetch     Fetcher
	Bootstrap bootstrapLookuper
	IANAHost  string
}

// NewDefaultClient returns a DefaultClient wired to github.com/domainr/whois
// for wire fetches and github.com/openrdap/rdap/bootstrap to recognize
// whether a TLD is known to RDAP at all when no other hint is available.
func NewDefaultClient() *DefaultClient {
	return &DefaultClient{
		Fetch:     whoisFetchAtHost,
		Bootstrap: &bootstrap.Client{},
		IANAHost:  "whois.iana.org",
	}
}

func whoisFetchAtHost(ctx context.Context, query, host string) (string, error) {
	req, err := whois.NewRequest(query)
	if err != nil {
		return "", err
	}
	if host != "" {
		req.Host = host
	}
	resp, err := whois.DefaultClient.FetchContext(ctx, req)
	if err != nil {
		return "", err
	}
	return string(resp.Body), nil
}

func (c *DefaultClient) Query(ctx context.Context, apex string, opts QueryOptions) (*Node, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	tld := lastLabel(apex)

	host := opts.Host
	if host == "" {
		host = c.ianaReferral(ctx, tld)
	}
	if host == "" {
		if !c.tldKnownToRDAP(ctx, tld) {
			return nil, fmt.Errorf("TLD for %q not supported", tld)
		}
	}

	candidates := make([]string, 0, 3)
	if host != "" {
		candidates = append(candidates, host)
	}
	candidates = append(candidates, "whois.registry."+tld, "whois.nic."+tld)

	var lastErr error
	for _, h := range candidates {
		body, err := c.Fetch(ctx, apex, h)
		if err != nil {
			lastErr = err
			continue
		}
		if strings.TrimSpace(body) == "" {
			continue
		}
		root := &Node{Raw: body}
		if referral := strings.TrimSpace(findWhoisValue(body, "Registrar WHOIS Server")); referral != "" {
			if rbody, rerr := c.Fetch(ctx, apex, referral); rerr == nil && strings.TrimSpace(rbody) != "" {
				root.Referred = map[string]*Node{referral: {Raw: rbody}}
			}
		}
		return root, nil
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, fmt.Errorf("No WHOIS data found for %q", apex)
}

func (c *DefaultClient) ianaReferral(ctx context.Context, tld string) string {
	host := c.IANAHost
	if host == "" {
		host = "whois.iana.org"
	}
	body, err := c.Fetch(ctx, tld, host)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(findWhoisValue(body, "refer", "whois"))
}

func (c *DefaultClient) tldKnownToRDAP(ctx context.Context, tld string) bool {
	if c.Bootstrap == nil {
		return true
	}
	q := (&bootstrap.Question{RegistryType: bootstrap.DNS, Query: tld}).WithContext(ctx)
	answer, err := c.Bootstrap.Lookup(q)
	return err == nil && answer != nil && len(answer.URLs) > 0
}

func lastLabel(domain string) string {
	if i := strings.LastIndexByte(domain, '.'); i >= 0 {
		return domain[i+1:]
	}
	return domain
}

// findWhoisValue scans a WHOIS body for the first "Key: value" line whose
// key case-insensitively matches one of keys, tolerating the variable
// spacing WHOIS output uses around ':'.
func findWhoisValue(body string, keys ...string) string {
	keySet := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		keySet[strings.ToLower(strings.TrimSpace(k))] = struct{}{}
	}
	for _, line := range strings.Split(body, "\n") {
		l := strings.TrimSpace(line)
		if l == "" {
			continue
		}
		idx := strings.IndexByte(l, ':')
		if idx <= 0 {
			continue
		}
		left := strings.ToLower(strings.TrimSpace(l[:idx]))
		if _, ok := keySet[left]; ok {
			return strings.TrimSpace(l[idx+1:])
		}
	}
	return ""
}
