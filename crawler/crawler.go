// Package crawler discovers the descendant pages of a base URL and collects
// the document links they contain.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lukemcguire/docgrab/result"
	"github.com/lukemcguire/docgrab/urlutil"
)

// Crawler walks pages breadth-first with a bounded pool of fetches.
//
// Pages that cannot be fetched or parsed are skipped: they contribute no
// descendants and no documents, and are reported by Failures. Only a
// failure on the base page itself aborts a crawl.
type Crawler struct {
	cfg    Config
	logger *log.Logger

	mu       sync.Mutex
	failures []result.PageFailure
	failed   map[string]bool
}

// New creates a Crawler with the given configuration.
func New(cfg Config) (*Crawler, error) {
	if cfg.Fetcher == nil {
		return nil, errors.New("crawler: config has no fetcher")
	}
	if cfg.Extension == "" {
		cfg.Extension = ".pdf"
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Crawler{
		cfg:    cfg,
		logger: logger,
		failed: make(map[string]bool),
	}, nil
}

// Crawl returns every distinct page reachable from baseURL through links
// that satisfy urlutil.HasBasePrefix, sorted. The base URL itself is not
// included. Links that look like documents are never crawled as pages.
func (c *Crawler) Crawl(ctx context.Context, baseURL string) ([]string, error) {
	visited := NewVisitedSet()
	visited.VisitIfNew(baseURL)

	links, err := c.scanPage(ctx, baseURL)
	if err != nil {
		return nil, fmt.Errorf("crawl base page %s: %w", baseURL, err)
	}

	var scanned atomic.Int64
	scanned.Add(1)
	c.emit(ctx, result.Event{Phase: result.PhaseCrawl, URL: baseURL, Done: 1, Total: visited.Len()})

	frontier := c.admit(visited, baseURL, links)
	pages := append([]string(nil), frontier...)

	for len(frontier) > 0 {
		var (
			mu   sync.Mutex
			next []string
		)

		group, groupCtx := errgroup.WithContext(ctx)
		group.SetLimit(c.cfg.Concurrency)

		for _, page := range frontier {
			page := page
			group.Go(func() error {
				children, scanErr := c.scanPage(groupCtx, page)
				evt := result.Event{Phase: result.PhaseCrawl, URL: page}
				if scanErr != nil {
					if ctxErr := ctx.Err(); ctxErr != nil {
						return ctxErr
					}
					c.recordFailure(page, scanErr)
					evt.Error = scanErr.Error()
					children = nil
				}

				admitted := c.admit(visited, baseURL, children)
				mu.Lock()
				next = append(next, admitted...)
				mu.Unlock()

				evt.Done = int(scanned.Add(1))
				evt.Total = visited.Len()
				c.emit(ctx, evt)
				return nil
			})
		}

		if waitErr := group.Wait(); waitErr != nil {
			return nil, fmt.Errorf("crawl %s: %w", baseURL, waitErr)
		}

		pages = append(pages, next...)
		frontier = next
	}

	sort.Strings(pages)
	c.logger.Info("crawl finished", "base", baseURL, "pages", len(pages))
	return pages, nil
}

// admit returns the links that are in scope, are not documents, and were
// not visited before, marking each as visited.
func (c *Crawler) admit(visited *VisitedSet, baseURL string, links []string) []string {
	var admitted []string
	for _, link := range links {
		if !urlutil.HasBasePrefix(link, baseURL) {
			continue
		}
		if urlutil.HasExtension(link, c.cfg.Extension) {
			continue
		}
		if visited.VisitIfNew(link) {
			admitted = append(admitted, link)
		}
	}
	return admitted
}

// Collect fetches each page and returns the distinct links whose filename
// ends with the configured extension, sorted.
func (c *Crawler) Collect(ctx context.Context, pages []string) ([]string, error) {
	var (
		mu   sync.Mutex
		docs []string
		done atomic.Int64
	)
	seen := make(map[string]bool)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(c.cfg.Concurrency)

	for _, page := range pages {
		page := page
		group.Go(func() error {
			links, scanErr := c.scanPage(groupCtx, page)
			evt := result.Event{Phase: result.PhaseCollect, URL: page, Total: len(pages)}
			if scanErr != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				c.recordFailure(page, scanErr)
				evt.Error = scanErr.Error()
			}

			mu.Lock()
			for _, link := range links {
				if !urlutil.HasExtension(link, c.cfg.Extension) || seen[link] {
					continue
				}
				seen[link] = true
				docs = append(docs, link)
			}
			mu.Unlock()

			evt.Done = int(done.Add(1))
			c.emit(ctx, evt)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("collect documents: %w", err)
	}

	sort.Strings(docs)
	c.logger.Info("collected documents", "pages", len(pages), "documents", len(docs))
	return docs, nil
}

// Failures returns the pages skipped so far, one entry per URL.
func (c *Crawler) Failures() []result.PageFailure {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]result.PageFailure, len(c.failures))
	copy(out, c.failures)
	return out
}

func (c *Crawler) recordFailure(page string, err error) {
	c.logger.Warn("skipping unreachable page", "url", page, "err", err)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failed[page] {
		return
	}
	c.failed[page] = true
	c.failures = append(c.failures, result.PageFailure{
		URL:           page,
		Error:         err.Error(),
		ErrorCategory: result.ClassifyError(err),
	})
}

// emit sends evt if a progress channel is configured. It gives up when ctx
// is done.
func (c *Crawler) emit(ctx context.Context, evt result.Event) {
	if c.cfg.Events == nil {
		return
	}
	select {
	case c.cfg.Events <- evt:
	case <-ctx.Done():
	}
}
