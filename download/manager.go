// Package download places documents into a destination directory without
// ever exposing a partially written file at the final path.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lukemcguire/docgrab/fetch"
	"github.com/lukemcguire/docgrab/result"
	"github.com/lukemcguire/docgrab/urlutil"
)

// ErrInvalidFilename is returned for URLs whose final path segment cannot
// be used as a file name.
var ErrInvalidFilename = errors.New("url has no usable file name")

// Config holds download manager configuration.
type Config struct {
	Fetcher     fetch.Fetcher       // Source of document bodies (required)
	Concurrency int                 // Number of filenames downloaded at once (default 4)
	Logger      *log.Logger         // Destination for log output; nil discards
	Events      chan<- result.Event // Optional progress events
}

// Manager downloads documents through a staging directory.
type Manager struct {
	cfg    Config
	logger *log.Logger
}

// New creates a Manager with the given configuration.
func New(cfg Config) (*Manager, error) {
	if cfg.Fetcher == nil {
		return nil, errors.New("download: config has no fetcher")
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Manager{cfg: cfg, logger: logger}, nil
}

// DownloadAll downloads each URL into destDir, named by the URL's final
// path segment, and returns one record per URL in input order.
//
// A failure on one document is recorded and does not stop the batch.
// URLs that map to the same file name are processed one after another in
// input order. The returned error is non-nil only when destDir or the
// staging directory cannot be created, or when ctx is done.
func (m *Manager) DownloadAll(ctx context.Context, urls []string, destDir string) ([]result.DownloadRecord, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, &FilesystemError{Op: "create destination", Path: destDir, Err: err}
	}

	// Staging lives inside destDir so the final rename never crosses filesystems.
	stagingDir, err := os.MkdirTemp(destDir, ".docgrab-staging-*")
	if err != nil {
		return nil, &FilesystemError{Op: "create staging directory", Path: destDir, Err: err}
	}
	defer func() {
		if rmErr := os.RemoveAll(stagingDir); rmErr != nil {
			m.logger.Warn("remove staging directory", "path", stagingDir, "err", rmErr)
		}
	}()

	records := make([]result.DownloadRecord, len(urls))
	var done atomic.Int64

	group := new(errgroup.Group)
	group.SetLimit(m.cfg.Concurrency)

	for _, indexes := range groupByFilename(urls) {
		indexes := indexes
		group.Go(func() error {
			for _, i := range indexes {
				rec := m.download(ctx, urls[i], stagingDir, destDir)
				records[i] = rec
				m.emit(ctx, result.Event{
					Phase:   result.PhaseDownload,
					URL:     rec.URL,
					Outcome: rec.Outcome,
					Error:   rec.Error,
					Done:    int(done.Add(1)),
					Total:   len(urls),
				})
			}
			return nil
		})
	}
	_ = group.Wait()

	if err := ctx.Err(); err != nil {
		return records, fmt.Errorf("download documents: %w", err)
	}
	return records, nil
}

// download fetches one document and places it at destDir/filename.
func (m *Manager) download(ctx context.Context, rawURL, stagingDir, destDir string) result.DownloadRecord {
	name := urlutil.Filename(rawURL)
	rec := result.DownloadRecord{URL: rawURL, Filename: name}

	if !validFilename(name) {
		return m.fail(rec, fmt.Errorf("%w: %q", ErrInvalidFilename, rawURL))
	}
	dest := filepath.Join(destDir, name)
	rec.Path = dest

	m.logger.Debug("downloading", "url", rawURL)
	staged, n, err := m.stage(ctx, rawURL, stagingDir, name)
	if err != nil {
		return m.fail(rec, err)
	}
	rec.Bytes = n

	outcome, err := place(staged, dest)
	if err != nil {
		_ = os.Remove(staged)
		return m.fail(rec, err)
	}
	rec.Outcome = outcome

	switch outcome {
	case result.OutcomeSkipped:
		m.logger.Info("already up to date, skipping", "path", dest)
	case result.OutcomeReplaced:
		m.logger.Info("replaced changed document", "path", dest, "bytes", n)
	default:
		m.logger.Info("saved document", "path", dest, "bytes", n)
	}
	return rec
}

func (m *Manager) fail(rec result.DownloadRecord, err error) result.DownloadRecord {
	m.logger.Warn("download failed", "url", rec.URL, "err", err)
	rec.Outcome = result.OutcomeFailed
	rec.Error = err.Error()
	rec.ErrorCategory = result.ClassifyError(err)
	return rec
}

// emit sends evt if a progress channel is configured.
func (m *Manager) emit(ctx context.Context, evt result.Event) {
	if m.cfg.Events == nil {
		return
	}
	select {
	case m.cfg.Events <- evt:
	case <-ctx.Done():
	}
}

// groupByFilename returns the indexes of urls grouped by derived file name,
// groups ordered by first appearance.
func groupByFilename(urls []string) [][]int {
	pos := make(map[string]int)
	var groups [][]int
	for i, u := range urls {
		name := urlutil.Filename(u)
		g, ok := pos[name]
		if !ok {
			g = len(groups)
			pos[name] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], i)
	}
	return groups
}

func validFilename(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && !strings.ContainsRune(name, 0)
}
