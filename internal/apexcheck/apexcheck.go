// Package apexcheck implements ApexChecker (spec.md §4.5): the NS-probe
// with WHOIS-fallback liveness decision for a registerable domain, wrapped
// in a per-instance coalescing-then-caching shape: acquire the per-key
// lock, check the cache, compute on a miss, write through.
package apexcheck

import (
	"context"
	"errors"

	"github.com/go-logr/logr"
	"github.com/miekg/dns"

	"go.datum.net/domainlive/internal/cachefacade"
	"go.datum.net/domainlive/internal/coalesce"
	"go.datum.net/domainlive/internal/dnsprobe"
	"go.datum.net/domainlive/internal/suffixextract"
	"go.datum.net/domainlive/internal/whoisheuristic"
)

// Result mirrors spec.md §3's ApexResult. RegisterableDomain is nil iff the
// input cannot be reduced to a registerable name, in which case Alive is
// always false.
type Result struct {
	RegisterableDomain *string
	Alive              bool
}

var nullResult = Result{}

// Options configures one Checker instance. Values that do not vary across
// calls — the built resolver set, retry policy, WHOIS client — are
// supplied once at construction; the root package's factory maps spec.md
// §6's flat dns.*/whois.* option names onto these.
type Options struct {
	Resolvers     []dnsprobe.Resolver
	Confirmations int
	MaxAttempts   int
	Retry         dnsprobe.RetryPolicy

	Whois                  whoisheuristic.Options
	WhoisErrorCountAsAlive bool

	Cache  cachefacade.Cache[Result]
	Logger logr.Logger
}

// Checker is a stateful ApexChecker instance (spec.md §4.5): one
// coalescing group and one cache, shared read/write across every
// concurrent Check call on this instance. Multiple Checkers are
// independent (spec.md §9, "Global state: none").
type Checker struct {
	opts  Options
	group coalesce.Group
}

func New(opts Options) *Checker {
	return &Checker{opts: opts}
}

// Check runs isApexAlive for inputDomain (spec.md §4.5). The coalescing
// key and the cache key are both the normalized input, not the computed
// apex (spec.md §9, "cache and coalescer key mismatch" — preserved as-is).
func (c *Checker) Check(ctx context.Context, inputDomain string) (Result, error) {
	normalized := suffixextract.ToALabel(inputDomain)

	return coalesce.Run(&c.group, normalized, func() (Result, error) {
		return cachefacade.GetOrCompute(ctx, c.opts.Cache, normalized, func() (Result, error) {
			return c.computeFresh(ctx, normalized)
		})
	})
}

func (c *Checker) computeFresh(ctx context.Context, normalized string) (Result, error) {
	apex, ok := suffixextract.Apex(normalized)
	if !ok {
		return nullResult, nil
	}

	confirmed, err := dnsprobe.Confirm(ctx, c.opts.Resolvers, apex, dns.TypeNS, dnsprobe.Options{
		Confirmations: c.opts.Confirmations,
		MaxAttempts:   c.opts.MaxAttempts,
		Retry:         c.opts.Retry,
		Logger:        c.opts.Logger,
	})
	if err != nil {
		return Result{}, err
	}
	if confirmed {
		return Result{RegisterableDomain: &apex, Alive: true}, nil
	}

	alive, whoisErr := whoisheuristic.HasBeenRegistered(ctx, apex, c.opts.Whois)
	if whoisErr != nil {
		var qerr *whoisheuristic.WhoisQueryError
		var terr *whoisheuristic.TldExtractionError
		if errors.As(whoisErr, &qerr) || errors.As(whoisErr, &terr) {
			return Result{RegisterableDomain: &apex, Alive: c.opts.WhoisErrorCountAsAlive}, nil
		}
		return Result{}, whoisErr
	}
	return Result{RegisterableDomain: &apex, Alive: alive}, nil
}
