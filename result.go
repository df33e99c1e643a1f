package domainlive

import (
	"go.datum.net/domainlive/internal/apexcheck"
	"go.datum.net/domainlive/internal/fqdncheck"
)

// ApexResult is the outcome of isApexAlive (spec.md §3). RegisterableDomain
// is nil iff the input could not be reduced to a registerable name, in
// which case Alive is always false.
type ApexResult = apexcheck.Result

// FqdnResult is the outcome of isFqdnAlive (spec.md §3). Invariants:
// Alive implies RegisterableDomainAlive; RegisterableDomain == nil implies
// both RegisterableDomainAlive and Alive are false; when the normalized
// input equals RegisterableDomain, Alive == RegisterableDomainAlive.
type FqdnResult = fqdncheck.Result
