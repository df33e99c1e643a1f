package dnsprobe

import (
	"context"
	"math/rand"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-logr/logr"
	"github.com/miekg/dns"
)

// RetryPolicy is the exponential-backoff-with-cap policy spec.md §4.3
// and §4.4 share between DnsProbe and WhoisHeuristic.
type RetryPolicy struct {
	Retries    int
	MinTimeout time.Duration
	MaxTimeout time.Duration
	Factor     float64
}

// Backoff builds a bounded exponential backoff.BackOff from the policy,
// shared verbatim by WhoisHeuristic (spec.md §4.4 uses "the same shape").
func (p RetryPolicy) Backoff() backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = p.MinTimeout
	eb.MaxInterval = p.MaxTimeout
	eb.Multiplier = p.Factor
	eb.MaxElapsedTime = 0 // bounded by WithMaxRetries, not wall-clock
	eb.Reset()
	return backoff.WithMaxRetries(eb, uint64(p.Retries))
}

// Options configures a single Confirm race.
type Options struct {
	Confirmations int
	MaxAttempts   int
	Retry         RetryPolicy
	Logger        logr.Logger
}

// Confirm runs the DnsProbe algorithm (spec.md §4.3) for one (name,
// qtype) query over resolvers: a shuffled copy is attempted strictly
// serially, each attempt retried per Options.Retry, until Confirmations
// non-empty-answer responses are observed or MaxAttempts is exhausted.
func Confirm(ctx context.Context, resolvers []Resolver, name string, qtype uint16, opts Options) (confirmed bool, err error) {
	if len(resolvers) == 0 {
		return false, nil
	}

	shuffled := make([]Resolver, len(resolvers))
	copy(shuffled, resolvers)
	rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 || maxAttempts > len(shuffled) {
		maxAttempts = len(shuffled)
	}
	confirmations := opts.Confirmations
	if confirmations < 1 {
		confirmations = 1
	}

	logger := opts.Logger
	seen := 0

	for i := 0; i < maxAttempts; i++ {
		r := shuffled[i%len(shuffled)]

		var answers []dns.RR
		operation := func() error {
			a, qerr := r.Query(ctx, name, qtype)
			if qerr != nil {
				return qerr
			}
			answers = a
			return nil
		}

		if err := backoff.Retry(operation, backoff.WithContext(opts.Retry.Backoff(), ctx)); err != nil {
			logger.V(1).Info("dns attempt exhausted retries, treating as non-confirming",
				"name", name, "qtype", qtype, "attempt", i, "error", err.Error())
			continue
		}

		if len(answers) > 0 {
			seen++
			if seen >= confirmations {
				return true, nil
			}
		}
	}

	return false, nil
}
