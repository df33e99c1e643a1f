// Package coalesce deduplicates concurrent work sharing the same key.
//
// It backs ApexChecker's and FqdnChecker's per-key locks on top of
// golang.org/x/sync/singleflight: at most one call's thunk actually runs
// for a given key, and every caller that arrives while it is in flight
// observes the same result. Unlike a cache, a failed call is never
// remembered — the next caller after a failure starts a fresh thunk.
package coalesce

import (
	"golang.org/x/sync/singleflight"
)

// Group deduplicates concurrent calls by key. The zero value is ready to use.
type Group struct {
	g singleflight.Group
}

// Run executes thunk for key if no call for key is already in flight,
// otherwise it waits for and returns the in-flight call's result. The
// key's entry is removed as soon as the call settles, so a later call with
// the same key — whether the previous one succeeded or failed — starts a
// new thunk.
func Run[T any](g *Group, key string, thunk func() (T, error)) (T, error) {
	v, err, _ := g.g.Do(key, func() (any, error) {
		return thunk()
	})
	if v == nil {
		var zero T
		return zero, err
	}
	return v.(T), err
}
