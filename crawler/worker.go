package crawler

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/lukemcguire/docgrab/fetch"
	"github.com/lukemcguire/docgrab/result"
	"github.com/lukemcguire/docgrab/urlutil"
)

// Config holds crawler configuration.
type Config struct {
	Fetcher     fetch.Fetcher       // Source of page bodies (required)
	Extension   string              // Document filename suffix (default ".pdf")
	Concurrency int                 // Number of pages fetched at once (default 4)
	Logger      *log.Logger         // Destination for log output; nil discards
	Events      chan<- result.Event // Optional progress events
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig(f fetch.Fetcher) Config {
	return Config{
		Fetcher:     f,
		Extension:   ".pdf",
		Concurrency: 4,
	}
}

// scanPage fetches pageURL and returns the absolute http(s) targets of its
// anchors, resolved against pageURL.
func (c *Crawler) scanPage(ctx context.Context, pageURL string) ([]string, error) {
	c.logger.Debug("fetching page", "url", pageURL)

	body, err := c.cfg.Fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := body.Close(); closeErr != nil {
			c.logger.Debug("close page body", "url", pageURL, "err", closeErr)
		}
	}()

	hrefs, err := ExtractLinks(body)
	if err != nil {
		return nil, fmt.Errorf("extract links from %s: %w", pageURL, err)
	}

	links := make([]string, 0, len(hrefs))
	for _, href := range hrefs {
		resolved, resolveErr := urlutil.Resolve(pageURL, href)
		if resolveErr != nil {
			c.logger.Debug("skipping unparseable href", "page", pageURL, "href", href, "err", resolveErr)
			continue
		}
		if !urlutil.IsHTTPScheme(resolved) {
			continue
		}
		links = append(links, resolved)
	}
	return links, nil
}
