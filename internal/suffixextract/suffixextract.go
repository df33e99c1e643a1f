// Package suffixextract adapts the two external collaborators spec.md
// treats as out-of-scope interfaces (§1, §6): the public-suffix /
// registerable-domain extractor and the IDN → A-label normalizer. Both are
// backed by golang.org/x/net's publicsuffix and idna packages.
package suffixextract

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"
)

// ToALabel normalizes a hostname to its ASCII-compatible A-label form,
// lower-cased, with scheme/path stripped if the input looks URL-like and
// any trailing root dot removed. It never fails outright: inputs that
// don't parse as valid IDN are returned lower-cased and trimmed as-is
// (trim, lower, done).
func ToALabel(input string) string {
	h := extractHostname(input)
	h = strings.ToLower(strings.TrimSuffix(h, "."))
	if h == "" {
		return h
	}
	if a, err := idna.Lookup.ToASCII(h); err == nil {
		return strings.TrimSuffix(a, ".")
	}
	return h
}

// extractHostname strips a scheme and path/query/fragment from url-like
// input ("https://example.com/x" → "example.com"), and a bracketed IPv6
// literal's brackets, leaving bare hostnames untouched.
func extractHostname(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return s
	}
	if strings.Contains(s, "://") {
		if u, err := url.Parse(s); err == nil && u.Hostname() != "" {
			return u.Hostname()
		}
	}
	// Bare "host/path" or "host:port" without a scheme.
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	if h, _, err := net.SplitHostPort(s); err == nil {
		s = h
	}
	return strings.Trim(s, "[]")
}

// Apex computes the registerable (eTLD+1) domain of an already A-labeled,
// lower-cased input. Private suffixes such as "github.io" are not treated
// as registerable boundaries — see GLOSSARY — but an unmanaged single-label
// TLD unlisted in the public suffix list (e.g. "zzz") is accepted as the
// boundary itself, the same way publicsuffix.EffectiveTLDPlusOne treats it.
// ok is false when input cannot be reduced to a registerable name: it is an
// IP literal, is itself a bare suffix with no label to register under it,
// or no suffix could be identified at all.
func Apex(input string) (apex string, ok bool) {
	h := input
	if h == "" {
		return "", false
	}
	if ip := net.ParseIP(h); ip != nil {
		return "", false
	}

	suffix, found := icannSuffix(h)
	if !found {
		return "", false
	}
	if !strings.HasSuffix(h, suffix) {
		return "", false
	}
	if h == suffix {
		// Input is itself exactly the suffix — nothing registerable under it.
		return "", false
	}
	rest := strings.TrimSuffix(h, suffix)
	rest = strings.TrimSuffix(rest, ".")
	if rest == "" {
		return "", false
	}
	i := strings.LastIndexByte(rest, '.')
	label := rest
	if i >= 0 {
		label = rest[i+1:]
	}
	if label == "" {
		return "", false
	}
	return label + "." + suffix, true
}

// TLD returns the registerable-boundary public suffix of an already
// A-labeled domain (e.g. "co.uk" for "sub.example.co.uk", "io" for
// "foo.github.io", "zzz" for "foo.zzz"). This is the "TLD" WhoisHeuristic
// looks up in its TldWhoisMap (spec.md §4.4 step 1). ok is false when no
// suffix can be identified: empty input or an IP literal.
func TLD(domain string) (string, bool) {
	if domain == "" {
		return "", false
	}
	if ip := net.ParseIP(domain); ip != nil {
		return "", false
	}
	return icannSuffix(domain)
}

// icannSuffix finds the registerable-boundary public suffix of domain. When
// publicsuffix.PublicSuffix already reports an ICANN match it is used
// directly; when domain falls under a private suffix (e.g. "github.io"),
// the private suffix's own parent is re-queried once to recover the
// underlying ICANN TLD boundary ("io"), matching the GLOSSARY's
// github.io-under-io example; when domain's suffix is an unmanaged
// single-label TLD unlisted in the public suffix list (e.g. "zzz"), it is
// accepted as-is, mirroring how publicsuffix.EffectiveTLDPlusOne treats
// unlisted TLDs rather than rejecting them.
func icannSuffix(domain string) (string, bool) {
	suf, icann := publicsuffix.PublicSuffix(domain)
	if suf == "" {
		return "", false
	}
	if icann {
		return suf, true
	}

	labels := strings.SplitN(suf, ".", 2)
	if len(labels) < 2 {
		return suf, true
	}
	parent := labels[1]
	suf2, _ := publicsuffix.PublicSuffix(parent)
	if suf2 == "" {
		return "", false
	}
	return suf2, true
}
