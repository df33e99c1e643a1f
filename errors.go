package domainlive

import "go.datum.net/domainlive/internal/whoisheuristic"

// WhoisQueryError wraps a bailed-out WHOIS query for a specific domain
// (spec.md §7). Neither NewApexChecker nor NewFqdnChecker's closures ever
// return it: ApexChecker catches it internally and converts it to
// whois.whoisErrorCountAsAlive. It is exported so callers that build their
// own checkers directly against the internal packages can recognize it
// with errors.As.
type WhoisQueryError = whoisheuristic.WhoisQueryError

// TldExtractionError means the WHOIS path could not even identify a TLD
// for a domain (spec.md §7). Like WhoisQueryError, it never reaches
// NewApexChecker/NewFqdnChecker's closures; it is exported for the same
// reason.
type TldExtractionError = whoisheuristic.TldExtractionError
