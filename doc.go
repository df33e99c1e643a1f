// Package domainlive decides whether a domain name is "alive" — its apex
// is registered and, for a full FQDN, whether the name itself resolves —
// without owning a CLI, reading environment variables, or touching disk
// (spec.md §6). It wraps a DNS NS/A/AAAA probe cascade, a WHOIS/RDAP
// fallback heuristic, per-key request coalescing and a pluggable result
// cache behind two factories: NewApexChecker and NewFqdnChecker.
package domainlive
