package whoisheuristic

import "regexp"

// Substring-based error classification (spec.md §4.4 step 4, Design note
// "Substring-based error classification"): the external WHOIS/RDAP client
// only exposes human-readable error text, so this is the one place that
// inspects it — when the client grows typed errors, only this file needs
// to change.
type errorClass int

const (
	classRetry errorClass = iota
	classTLDUnsupported
	classNoWhois
	classBail
)

var (
	reTLDNotSupported = regexp.MustCompile(`TLD for "[^"]*" not supported`)
	reInvalidTLD      = regexp.MustCompile(`Invalid TLD "[^"]*"`)
	reTLDNotFound     = regexp.MustCompile(`TLD "[^"]*" not found`)
	reNoWhoisData     = regexp.MustCompile(`(?i)no whois data found`)
)

func classifyWhoisError(err error) errorClass {
	if err == nil {
		return classRetry
	}
	msg := err.Error()
	switch {
	case reTLDNotSupported.MatchString(msg):
		return classTLDUnsupported
	case reInvalidTLD.MatchString(msg), reTLDNotFound.MatchString(msg):
		return classBail
	case reNoWhoisData.MatchString(msg):
		return classNoWhois
	default:
		return classRetry
	}
}
