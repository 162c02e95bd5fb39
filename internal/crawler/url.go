package crawler

import (
	"fmt"
	"net/url"
	"strings"
)

// Normalize standardizes a URL for deduplication. It lowercases the scheme
// and host, drops the fragment, and strips a single trailing slash when the
// path has more than one segment. The query string is preserved verbatim.
func Normalize(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)

	normalized := u.Scheme + "://" + u.Host + u.EscapedPath()
	if u.RawQuery != "" {
		normalized += "?" + u.RawQuery
	}
	// "https://x.com/" keeps its slash; "https://x.com/p/" loses it.
	if strings.HasSuffix(normalized, "/") && strings.Count(normalized, "/") > 3 {
		normalized = strings.TrimSuffix(normalized, "/")
	}
	return normalized, nil
}

// IsEligible reports whether a URL should be crawled: same host as the
// allowed domain and not matching any skip pattern.
func IsEligible(rawURL, allowedDomain string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if !strings.EqualFold(u.Host, allowedDomain) {
		return false
	}
	return !defaultSkipPatterns.Matches(rawURL)
}
