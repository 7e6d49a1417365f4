// Package pipeline runs a full crawl, collect and download pass.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lukemcguire/docgrab/crawler"
	"github.com/lukemcguire/docgrab/download"
	"github.com/lukemcguire/docgrab/fetch"
	"github.com/lukemcguire/docgrab/result"
	"github.com/lukemcguire/docgrab/urlutil"
)

// Config holds the settings for one pipeline run.
type Config struct {
	BaseURL     string              // Page the crawl starts from; also the scope prefix
	DestDir     string              // Directory documents are saved into
	Extension   string              // Document filename suffix (default ".pdf")
	Concurrency int                 // Parallel fetches per phase (default 4)
	IncludeBase bool                // Also collect documents linked from the base page
	Fetcher     fetch.Fetcher       // Source of page and document bodies (required)
	Logger      *log.Logger         // Destination for log output; nil discards
	Events      chan<- result.Event // Optional progress events
}

// Run crawls cfg.BaseURL, collects document links from the discovered
// pages and downloads them into cfg.DestDir.
//
// A non-nil report is returned whenever the download phase ran, even if
// the context was canceled part way through.
func Run(ctx context.Context, cfg Config) (*result.Report, error) {
	if !urlutil.IsHTTPScheme(cfg.BaseURL) {
		return nil, fmt.Errorf("base url %q: must start with http:// or https://", cfg.BaseURL)
	}
	if cfg.DestDir == "" {
		return nil, errors.New("destination directory is empty")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	start := time.Now()

	cr, err := crawler.New(crawler.Config{
		Fetcher:     cfg.Fetcher,
		Extension:   cfg.Extension,
		Concurrency: cfg.Concurrency,
		Logger:      logger.WithPrefix("crawl"),
		Events:      cfg.Events,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("crawling", "base", cfg.BaseURL)
	pages, err := cr.Crawl(ctx, cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	sources := pages
	if cfg.IncludeBase {
		sources = append([]string{cfg.BaseURL}, pages...)
	}
	docs, err := cr.Collect(ctx, sources)
	if err != nil {
		return nil, err
	}

	dm, err := download.New(download.Config{
		Fetcher:     cfg.Fetcher,
		Concurrency: cfg.Concurrency,
		Logger:      logger.WithPrefix("download"),
		Events:      cfg.Events,
	})
	if err != nil {
		return nil, err
	}

	records, dlErr := dm.DownloadAll(ctx, docs, cfg.DestDir)
	if records == nil && dlErr != nil {
		return nil, dlErr
	}

	rep := &result.Report{
		BaseURL:      cfg.BaseURL,
		DestDir:      cfg.DestDir,
		Pages:        pages,
		Documents:    docs,
		Records:      records,
		PageFailures: cr.Failures(),
	}
	rep.Stats.Pages = len(pages)
	rep.Stats.Documents = len(docs)
	rep.Stats.PageFailures = len(rep.PageFailures)
	result.Tally(&rep.Stats, records)
	rep.Stats.Duration = time.Since(start)

	logger.Info("run finished",
		"written", rep.Stats.Written,
		"replaced", rep.Stats.Replaced,
		"skipped", rep.Stats.Skipped,
		"failed", rep.Stats.Failed,
		"duration", rep.Stats.Duration.Round(time.Millisecond),
	)
	return rep, dlErr
}
