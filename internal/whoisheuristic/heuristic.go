// Package whoisheuristic implements WhoisHeuristic (spec.md §4.4): the
// ApexChecker's fallback path when the NS probe comes back unconfirmed. It
// classifies an external WHOIS/RDAP client's response — and its
// unstructured error text — into a registered/unregistered/unknown verdict,
// trusting a raw-text dead-phrase scan over whatever structured fields the
// client returns, since referred responses can cache stale data.
package whoisheuristic

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-logr/logr"

	"go.datum.net/domainlive/internal/dnsprobe"
	"go.datum.net/domainlive/internal/suffixextract"
)

// Sentinel conveys an authoritative non-answer from the WHOIS stage,
// distinct from a transient failure that should be retried (spec.md §9,
// Design note "Sentinel values").
type Sentinel int

const (
	SentinelNone Sentinel = iota
	SentinelTLDUnsupported
	SentinelNoWhois
)

// Options configures one HasBeenRegistered call.
type Options struct {
	Timeout                time.Duration
	Retry                  dnsprobe.RetryPolicy
	TldMap                 TldWhoisMap
	WhoisErrorCountAsAlive bool
	Family                 *int
	Follow                 *int
	Client                 Client
	Logger                 logr.Logger
}

// HasBeenRegistered runs the WhoisHeuristic algorithm for apex (spec.md
// §4.4). It never returns a bare transient failure: retry exhaustion
// resolves to opts.WhoisErrorCountAsAlive. It can return *WhoisQueryError
// or *TldExtractionError, both of which ApexChecker converts to
// opts.WhoisErrorCountAsAlive rather than propagating to its own caller.
func HasBeenRegistered(ctx context.Context, apex string, opts Options) (bool, error) {
	tld, ok := suffixextract.TLD(apex)
	if !ok {
		return false, &TldExtractionError{Domain: apex}
	}

	hint, _ := opts.TldMap.Lookup(tld)

	var node *Node
	sentinel := SentinelNone

	operation := func() error {
		n, err := opts.Client.Query(ctx, apex, QueryOptions{
			Host:    hint,
			Timeout: opts.Timeout,
			Family:  opts.Family,
			Follow:  opts.Follow,
		})
		if err != nil {
			switch classifyWhoisError(err) {
			case classTLDUnsupported:
				sentinel = SentinelTLDUnsupported
				return nil
			case classNoWhois:
				sentinel = SentinelNoWhois
				return nil
			case classBail:
				return backoff.Permanent(&WhoisQueryError{Domain: apex, Err: err})
			default:
				return err
			}
		}
		node = n
		sentinel = SentinelNone
		return nil
	}

	retryErr := backoff.Retry(operation, backoff.WithContext(opts.Retry.Backoff(), ctx))
	if retryErr != nil {
		var qerr *WhoisQueryError
		if errors.As(retryErr, &qerr) {
			return false, qerr
		}
		opts.Logger.V(1).Info("whois retries exhausted, assuming configured default",
			"apex", apex, "error", retryErr.Error(), "assumeAlive", opts.WhoisErrorCountAsAlive)
		return opts.WhoisErrorCountAsAlive, nil
	}

	switch sentinel {
	case SentinelTLDUnsupported:
		return true, nil
	case SentinelNoWhois:
		return false, nil
	default:
		return scanNode(node), nil
	}
}
