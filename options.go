package domainlive

import (
	"context"
	"time"

	"github.com/go-logr/logr"

	"go.datum.net/domainlive/internal/apexcheck"
	"go.datum.net/domainlive/internal/cachefacade"
	"go.datum.net/domainlive/internal/dnsprobe"
	"go.datum.net/domainlive/internal/fqdncheck"
	"go.datum.net/domainlive/internal/whoisheuristic"
)

// DnsOptions configures the DnsProbe stage shared by ApexChecker's NS probe
// and FqdnChecker's A/AAAA probes (spec.md §6).
type DnsOptions struct {
	// DnsServers are DnsServerSpec strings: "[scheme://]host[:port]" with
	// scheme in {"", udp, tcp, tls, https}. Defaults to four public DoH
	// resolvers.
	DnsServers []string

	// Confirmations is the number of non-empty-answer attempts required
	// before DnsProbe reports CONFIRMED. Defaults to 2.
	Confirmations int

	// MaxAttempts bounds how many resolvers DnsProbe will try per probe.
	// Defaults to len(DnsServers), and is clamped to it regardless of any
	// larger value supplied.
	MaxAttempts int

	// RetryCount, RetryFactor, RetryMinTimeout and RetryMaxTimeout govern
	// the per-attempt exponential backoff. Default to 3, 2, 1s and 16s.
	RetryCount      int
	RetryFactor     float64
	RetryMinTimeout time.Duration
	RetryMaxTimeout time.Duration

	// ExchangeTimeout bounds a single DNS exchange, independent of the
	// retry policy's own timing. Defaults to 5s.
	ExchangeTimeout time.Duration
}

// WhoisOptions configures WhoisHeuristic, ApexChecker's fallback when the
// NS probe does not confirm (spec.md §6).
type WhoisOptions struct {
	// Timeout bounds a single WHOIS/RDAP query. Defaults to 5s.
	Timeout time.Duration

	// RetryCount, RetryFactor, RetryMinTimeout and RetryMaxTimeout govern
	// WHOIS retry backoff, the same shape as DnsOptions. Default to 3, 2,
	// 1s and 16s.
	RetryCount      int
	RetryFactor     float64
	RetryMinTimeout time.Duration
	RetryMaxTimeout time.Duration

	// Family is an optional preferred IP family ({4, 6}) passed through to
	// the WHOIS/RDAP client.
	Family *int
	// Follow is an optional referral follow depth passed through to the
	// WHOIS/RDAP client.
	Follow *int

	// CustomWhoisServersMapping is merged over the built-in TldWhoisMap;
	// caller entries win.
	CustomWhoisServersMapping map[string]string

	// WhoisErrorCountAsAlive governs the "assume alive on unknown" bias
	// whenever the WHOIS path bails or exhausts its retries. Defaults to
	// true, matching the recall-over-precision posture spec.md §7 requires.
	WhoisErrorCountAsAlive *bool

	// Client overrides the default github.com/domainr/whois +
	// github.com/openrdap/rdap/bootstrap-backed client, e.g. in tests.
	Client whoisheuristic.Client

	// Logger receives structured diagnostics from WhoisHeuristic. Defaults
	// to a discard logger.
	Logger logr.Logger
}

// Options configures a checker factory (spec.md §6). All fields are
// optional; see each nested type's doc comment for defaults.
type Options struct {
	Dns   DnsOptions
	Whois WhoisOptions

	// ApexResultCache and FqdnResultCache are caller-supplied result
	// caches. When nil, each factory instantiates its own private
	// in-memory cache (spec.md §9, "Default cache").
	ApexResultCache cachefacade.Cache[ApexResult]
	FqdnResultCache cachefacade.Cache[FqdnResult]

	// Logger receives structured diagnostics from DnsProbe. Defaults to a
	// discard logger.
	Logger logr.Logger
}

var defaultDnsServers = []string{
	"https://1.1.1.1",
	"https://1.0.0.1",
	"https://8.8.8.8",
	"https://8.8.4.4",
}

func boolDefault(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func (o Options) dnsServers() []string {
	if len(o.Dns.DnsServers) > 0 {
		return o.Dns.DnsServers
	}
	return defaultDnsServers
}

func (o Options) dnsExchangeTimeout() time.Duration {
	if o.Dns.ExchangeTimeout > 0 {
		return o.Dns.ExchangeTimeout
	}
	return 5 * time.Second
}

func (o Options) dnsConfirmations() int {
	if o.Dns.Confirmations > 0 {
		return o.Dns.Confirmations
	}
	return 2
}

func (o Options) dnsMaxAttempts(serverCount int) int {
	maxAttempts := o.Dns.MaxAttempts
	if maxAttempts <= 0 || maxAttempts > serverCount {
		maxAttempts = serverCount
	}
	return maxAttempts
}

func (o Options) dnsRetry() dnsprobe.RetryPolicy {
	retries := o.Dns.RetryCount
	if retries <= 0 {
		retries = 3
	}
	factor := o.Dns.RetryFactor
	if factor <= 0 {
		factor = 2
	}
	minTimeout := o.Dns.RetryMinTimeout
	if minTimeout <= 0 {
		minTimeout = time.Second
	}
	maxTimeout := o.Dns.RetryMaxTimeout
	if maxTimeout <= 0 {
		maxTimeout = 16 * time.Second
	}
	return dnsprobe.RetryPolicy{Retries: retries, MinTimeout: minTimeout, MaxTimeout: maxTimeout, Factor: factor}
}

func (o Options) whoisRetry() dnsprobe.RetryPolicy {
	retries := o.Whois.RetryCount
	if retries <= 0 {
		retries = 3
	}
	factor := o.Whois.RetryFactor
	if factor <= 0 {
		factor = 2
	}
	minTimeout := o.Whois.RetryMinTimeout
	if minTimeout <= 0 {
		minTimeout = time.Second
	}
	maxTimeout := o.Whois.RetryMaxTimeout
	if maxTimeout <= 0 {
		maxTimeout = 16 * time.Second
	}
	return dnsprobe.RetryPolicy{Retries: retries, MinTimeout: minTimeout, MaxTimeout: maxTimeout, Factor: factor}
}

func (o Options) whoisTimeout() time.Duration {
	if o.Whois.Timeout > 0 {
		return o.Whois.Timeout
	}
	return 5 * time.Second
}

func (o Options) whoisClient() whoisheuristic.Client {
	if o.Whois.Client != nil {
		return o.Whois.Client
	}
	return whoisheuristic.NewDefaultClient()
}

func (o Options) whoisTldMap() whoisheuristic.TldWhoisMap {
	if len(o.Whois.CustomWhoisServersMapping) == 0 {
		return whoisheuristic.DefaultTldWhoisMap()
	}
	return whoisheuristic.MergeTldWhoisMap(whoisheuristic.TldWhoisMap(o.Whois.CustomWhoisServersMapping))
}

// buildResolvers parses Options.Dns.DnsServers into DnsProbe resolvers.
// ParseServerSpec rejects an unknown scheme, a programmer error that is
// surfaced synchronously from the factory (spec.md §7).
func (o Options) buildResolvers() []dnsprobe.Resolver {
	resolvers, err := dnsprobe.BuildResolvers(o.dnsServers(), o.dnsExchangeTimeout())
	if err != nil {
		panic(err)
	}
	return resolvers
}

// buildApexChecker wires one ApexChecker instance from Options, shared by
// NewApexChecker and, as the delegate, by NewFqdnChecker.
func buildApexChecker(options Options) *apexcheck.Checker {
	resolvers := options.buildResolvers()
	cache := options.ApexResultCache
	if cache == nil {
		cache = cachefacade.NewMemory[ApexResult]()
	}
	whoisErrorCountAsAlive := boolDefault(options.Whois.WhoisErrorCountAsAlive, true)

	return apexcheck.New(apexcheck.Options{
		Resolvers:     resolvers,
		Confirmations: options.dnsConfirmations(),
		MaxAttempts:   options.dnsMaxAttempts(len(resolvers)),
		Retry:         options.dnsRetry(),
		Whois: whoisheuristic.Options{
			Timeout:                options.whoisTimeout(),
			Retry:                  options.whoisRetry(),
			TldMap:                 options.whoisTldMap(),
			WhoisErrorCountAsAlive: whoisErrorCountAsAlive,
			Family:                 options.Whois.Family,
			Follow:                 options.Whois.Follow,
			Client:                 options.whoisClient(),
			Logger:                 options.Whois.Logger,
		},
		WhoisErrorCountAsAlive: whoisErrorCountAsAlive,
		Cache:                  cache,
		Logger:                 options.Logger,
	})
}

// NewApexChecker builds a stateful ApexChecker closure (spec.md §6): every
// call made through the returned function shares the same coalescing
// group and cache, bound to this instance only (spec.md §9, "Global
// state: none").
func NewApexChecker(options Options) func(domain string) ApexResult {
	checker := buildApexChecker(options)
	return func(domain string) ApexResult {
		res, err := checker.Check(context.Background(), domain)
		if err != nil {
			return ApexResult{}
		}
		return res
	}
}

// NewFqdnChecker builds a stateful FqdnChecker closure (spec.md §6),
// backed by its own ApexChecker instance wired from the same Options.
func NewFqdnChecker(options Options) func(domain string) FqdnResult {
	apex := buildApexChecker(options)

	resolvers := options.buildResolvers()
	cache := options.FqdnResultCache
	if cache == nil {
		cache = cachefacade.NewMemory[FqdnResult]()
	}

	checker := fqdncheck.New(fqdncheck.Options{
		Apex:          apex,
		Resolvers:     resolvers,
		Confirmations: options.dnsConfirmations(),
		MaxAttempts:   options.dnsMaxAttempts(len(resolvers)),
		Retry:         options.dnsRetry(),
		Cache:         cache,
		Logger:        options.Logger,
	})

	return func(domain string) FqdnResult {
		res, err := checker.Check(context.Background(), domain)
		if err != nil {
			return FqdnResult{}
		}
		return res
	}
}
