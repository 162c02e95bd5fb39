package crawler

import "strings"

// patternBlocklist rejects URLs containing any of a fixed set of substrings.
// Matching is case-insensitive over the full URL string.
type patternBlocklist struct {
	patterns []string
}

func newPatternBlocklist(patterns []string) *patternBlocklist {
	matcher := &patternBlocklist{}
	for _, raw := range patterns {
		value := strings.TrimSpace(strings.ToLower(raw))
		if value == "" {
			continue
		}
		matcher.patterns = append(matcher.patterns, value)
	}
	return matcher
}

// Matches reports whether the URL contains any blocked substring.
func (b *patternBlocklist) Matches(rawURL string) bool {
	if b == nil || rawURL == "" {
		return false
	}
	lower := strings.ToLower(rawURL)
	for _, p := range b.patterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// defaultSkipPatterns covers auth/session pages, transactional pages,
// search endpoints, binary/archive extensions, and bare anchors.
var defaultSkipPatterns = newPatternBlocklist([]string{
	"/login",
	"/logout",
	"/signin",
	"/signup",
	"/register",
	"/cart",
	"/checkout",
	"/account",
	"/search",
	"?search=",
	"?q=",
	".pdf",
	".jpg",
	".png",
	".gif",
	".zip",
	".exe",
	"#",
})
