package media

import (
	"regexp"
	"strings"
)

// Wildcard is returned by TopDomain when no registrable domain can be found.
const Wildcard = "*"

var (
	schemeRegex    = regexp.MustCompile(`^https?:/*`)
	topDomainRegex = regexp.MustCompile(`(\w{2,}\.\w{2,3}\.\w{2}|\w{2,}\.\w{2,3})$`)
)

// TopDomain extracts the registrable domain from a URL or host, e.g. "https://sub.example.com:8080/watch?v=1" yields "example.com".
// The scheme, query, path and port are stripped in that order before matching.
func TopDomain(raw string) string {
	domain := schemeRegex.ReplaceAllString(raw, "")

	for _, sep := range []string{"?", "/", ":"} {
		domain, _, _ = strings.Cut(domain, sep)
	}

	if match := topDomainRegex.FindStringSubmatch(domain); match != nil {
		return match[1]
	}
	return Wildcard
}
