package urlutil

import (
	"fmt"
	"net/url"
	"strings"
)

// Resolve resolves a possibly-relative href against the URL of the page it
// was found on and drops any fragment. An empty href resolves to the page
// itself.
func Resolve(base string, ref string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base URL %q: %w", base, err)
	}

	refURL, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", fmt.Errorf("parse ref URL %q: %w", ref, err)
	}

	resolved := baseURL.ResolveReference(refURL)
	resolved.Fragment = ""
	resolved.RawFragment = ""
	return resolved.String(), nil
}

// Filename returns the final segment of the URL path, unescaped.
// It returns "" for unparseable URLs and for paths ending in "/".
func Filename(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	p := parsed.Path
	return p[strings.LastIndex(p, "/")+1:]
}
