package urlutil

import (
	"net/url"
	"strings"
)

// HasBasePrefix reports whether link is in scope of a crawl rooted at base.
// Scope is a literal string prefix test: it is not a host or path-segment
// check, so "https://example.com/manual-old" is in scope of
// "https://example.com/manual". Crawl scoping goes through this function
// only, so a stricter containment check can replace it in one place.
func HasBasePrefix(link, base string) bool {
	return base != "" && strings.HasPrefix(link, base)
}

// IsHTTPScheme returns true if the URL has an http or https scheme.
// Returns false for empty strings, non-HTTP schemes, or unparseable URLs.
func IsHTTPScheme(rawURL string) bool {
	if rawURL == "" {
		return false
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	scheme := strings.ToLower(parsed.Scheme)
	return scheme == "http" || scheme == "https"
}

// HasExtension reports whether the final path segment of rawURL ends with ext.
// The match is case-sensitive.
func HasExtension(rawURL, ext string) bool {
	if ext == "" {
		return false
	}
	return strings.HasSuffix(Filename(rawURL), ext)
}
