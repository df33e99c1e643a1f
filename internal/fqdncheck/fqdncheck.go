// Package fqdncheck implements FqdnChecker (spec.md §4.6): it delegates
// registerability to an apexcheck.Checker and, for a live apex whose input
// is a proper subdomain, runs an A-then-AAAA liveness probe of its own.
package fqdncheck

import (
	"context"

	"github.com/go-logr/logr"
	"github.com/miekg/dns"

	"go.datum.net/domainlive/internal/apexcheck"
	"go.datum.net/domainlive/internal/cachefacade"
	"go.datum.net/domainlive/internal/coalesce"
	"go.datum.net/domainlive/internal/dnsprobe"
	"go.datum.net/domainlive/internal/suffixextract"
)

// Result mirrors spec.md §3's FqdnResult.
type Result struct {
	RegisterableDomain      *string
	RegisterableDomainAlive bool
	Alive                   bool
}

// Options configures one Checker instance. Apex is the ApexChecker this
// FqdnChecker delegates registerability to; the remaining fields configure
// FqdnChecker's own A/AAAA probing, independent of whatever DnsProbe
// options Apex was constructed with.
type Options struct {
	Apex *apexcheck.Checker

	Resolvers     []dnsprobe.Resolver
	Confirmations int
	MaxAttempts   int
	Retry         dnsprobe.RetryPolicy

	Cache  cachefacade.Cache[Result]
	Logger logr.Logger
}

// Checker is a stateful FqdnChecker instance (spec.md §4.6): one
// coalescing group and one cache of its own, independent of the
// ApexChecker it delegates to (spec.md §5, "the two checkers' coalescers
// are independent").
type Checker struct {
	opts  Options
	group coalesce.Group
}

func New(opts Options) *Checker {
	return &Checker{opts: opts}
}

// Check runs isFqdnAlive for inputDomain (spec.md §4.6).
func (c *Checker) Check(ctx context.Context, inputDomain string) (Result, error) {
	normalized := suffixextract.ToALabel(inputDomain)

	apexRes, err := c.opts.Apex.Check(ctx, normalized)
	if err != nil {
		return Result{}, err
	}
	if apexRes.RegisterableDomain == nil {
		return Result{}, nil
	}
	if !apexRes.Alive {
		return Result{RegisterableDomain: apexRes.RegisterableDomain, RegisterableDomainAlive: false, Alive: false}, nil
	}
	if normalized == *apexRes.RegisterableDomain {
		return Result{RegisterableDomain: apexRes.RegisterableDomain, RegisterableDomainAlive: true, Alive: true}, nil
	}

	apex := *apexRes.RegisterableDomain
	return coalesce.Run(&c.group, normalized, func() (Result, error) {
		return cachefacade.GetOrCompute(ctx, c.opts.Cache, normalized, func() (Result, error) {
			return c.computeFresh(ctx, normalized, apex)
		})
	})
}

func (c *Checker) computeFresh(ctx context.Context, normalized, apex string) (Result, error) {
	probeOpts := dnsprobe.Options{
		Confirmations: c.opts.Confirmations,
		MaxAttempts:   c.opts.MaxAttempts,
		Retry:         c.opts.Retry,
		Logger:        c.opts.Logger,
	}

	// Each phase shuffles and attempts its own copy of the resolver set
	// (dnsprobe.Confirm shuffles internally), diversifying path selection
	// between the A and AAAA phases (spec.md §4.6).
	confirmed, err := dnsprobe.Confirm(ctx, c.opts.Resolvers, normalized, dns.TypeA, probeOpts)
	if err != nil {
		return Result{}, err
	}
	if confirmed {
		return Result{RegisterableDomain: &apex, RegisterableDomainAlive: true, Alive: true}, nil
	}

	confirmed, err = dnsprobe.Confirm(ctx, c.opts.Resolvers, normalized, dns.TypeAAAA, probeOpts)
	if err != nil {
		return Result{}, err
	}
	if confirmed {
		return Result{RegisterableDomain: &apex, RegisterableDomainAlive: true, Alive: true}, nil
	}

	return Result{RegisterableDomain: &apex, RegisterableDomainAlive: true, Alive: false}, nil
}
