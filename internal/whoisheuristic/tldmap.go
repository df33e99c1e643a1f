package whoisheuristic

import "strings"

// TldWhoisMap maps a lowercased TLD label (including A-label "xn--…"
// forms) to a WHOIS server hostname (spec.md §3). A built-in table ships
// with common registries; a caller-supplied map is merged over it with
// caller entries winning. DefaultClient also falls back through
// increasingly generic guesses ("whois.registry."+tld, "whois.nic."+tld)
// when this map has no better hint.
type TldWhoisMap map[string]string

var builtinTldWhois = TldWhoisMap{
	"com":  "whois.verisign-grs.com",
	"net":  "whois.verisign-grs.com",
	"org":  "whois.pir.org",
	"info": "whois.nic.info",
	"biz":  "whois.nic.biz",
	"name": "whois.nic.name",
	"mobi": "whois.nic.mobi",
	"io":   "whois.nic.io",
	"co":   "whois.nic.co",
	"dev":  "whois.nic.google",
	"app":  "whois.nic.google",
	"xyz":  "whois.nic.xyz",
	"ai":   "whois.nic.ai",
	"me":   "whois.nic.me",
	"tv":   "whois.nic.tv",
	"cc":   "ccwhois.verisign-grs.com",
	"us":   "whois.nic.us",
	"uk":   "whois.nic.uk",
	"de":   "whois.denic.de",
	"fr":   "whois.nic.fr",
	"nl":   "whois.domain-registry.nl",
	"eu":   "whois.eu",
	"ca":   "whois.cira.ca",
	"au":   "whois.auda.org.au",
	"jp":   "whois.jprs.jp",
	"cn":   "whois.cnnic.cn",
	"in":   "whois.registry.in",
	"br":   "whois.registro.br",
	"ru":   "whois.tcinet.ru",
	"pw":   "whois.nic.pw",
	"ly":   "whois.nic.ly",
	"sh":   "whois.nic.sh",
	"gg":   "whois.gg",
}

// DefaultTldWhoisMap returns a copy of the built-in table.
func DefaultTldWhoisMap() TldWhoisMap {
	out := make(TldWhoisMap, len(builtinTldWhois))
	for k, v := range builtinTldWhois {
		out[k] = v
	}
	return out
}

// MergeTldWhoisMap merges custom over the built-in table; custom entries
// win on key collision.
func MergeTldWhoisMap(custom TldWhoisMap) TldWhoisMap {
	merged := DefaultTldWhoisMap()
	for k, v := range custom {
		merged[strings.ToLower(k)] = v
	}
	return merged
}

// Lookup returns the WHOIS server hint for tld, if any.
func (m TldWhoisMap) Lookup(tld string) (string, bool) {
	v, ok := m[strings.ToLower(tld)]
	return v, ok
}
