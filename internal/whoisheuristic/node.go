package whoisheuristic

import (
	"regexp"
	"strings"
)

// Node is the duck-typed WHOIS response tree WhoisHeuristic's raw-text
// scanner walks (spec.md §4.4 step 7, Design note "Duck-typed WHOIS
// object"): a possibly-nested mapping where any node may carry a __raw
// string, and nested mapping values are referred responses. Arrays
// ("Name Server", "Domain Status", ...) are deliberately not modeled here
// — their content is already reflected in Raw.
type Node struct {
	Raw      string
	Referred map[string]*Node
}

var whitespaceRun = regexp.MustCompile(`[ \t]+`)

// dead-phrase filter (spec.md §4.4): case-insensitive substrings whose
// presence in a line of raw WHOIS text is a reliable unregistered signal.
// The leading/trailing spaces on " is free" and " has been blocked by "
// are significant — they keep those two from matching inside longer words.
var deadPhrases = []string{
	"no match for",
	"does not exist",
	"not found",
	"no found",
	"no entries",
	"no data found",
	"is available for registration",
	"currently available for application",
	"no matching record",
	"no information available about domain name",
	"not been registered",
	"no match!!",
	"status: available",
	" is free",
	"no object found",
	"nothing found",
	"status: free",
	" has been blocked by ",
}

func lineHasDeadPhrase(lowerLine string) bool {
	for _, p := range deadPhrases {
		if strings.Contains(lowerLine, p) {
			return true
		}
	}
	return false
}

// rawLines lowercases raw, collapses runs of tabs/spaces to one space, and
// splits on LF/CRLF, ready for per-line dead-phrase testing.
func rawLines(raw string) []string {
	lower := strings.ToLower(raw)
	lower = whitespaceRun.ReplaceAllString(lower, " ")
	lower = strings.ReplaceAll(lower, "\r\n", "\n")
	return strings.Split(lower, "\n")
}

// scanNode implements the recursive raw-text scan (spec.md §4.4 step 7):
// a dead phrase anywhere in n.Raw is an immediate, short-circuiting
// unregistered verdict; otherwise any child that scans as registered
// short-circuits a registered verdict; absent either, an empty node (no
// Raw, no children) is unregistered, and any other non-empty node is
// registered by default (positive evidence is "no dead phrase anywhere").
func scanNode(n *Node) bool {
	if n == nil {
		return false
	}
	if n.Raw != "" {
		for _, line := range rawLines(n.Raw) {
			if lineHasDeadPhrase(line) {
				return false
			}
		}
	}
	for _, child := range n.Referred {
		if scanNode(child) {
			return true
		}
	}
	return n.Raw != "" || len(n.Referred) > 0
}
