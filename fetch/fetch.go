// Package fetch retrieves raw page and document bodies over HTTP.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultUserAgent is sent when Config.UserAgent is empty.
const DefaultUserAgent = "docgrab/1.0 (+https://github.com/lukemcguire/docgrab)"

// Fetcher returns the body of the resource at a URL.
// Callers must close the returned reader.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (io.ReadCloser, error)
}

// FetchError reports a transport failure or a non-success HTTP status.
type FetchError struct {
	URL        string // The URL that was requested
	StatusCode int    // HTTP status code (0 if no response was received)
	Err        error  // Underlying transport error, if any
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch %s: HTTP %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Config holds HTTPFetcher configuration.
type Config struct {
	Timeout   time.Duration // Per-request timeout, covering the body read (default 30s)
	UserAgent string        // User-Agent header value
	Client    *http.Client  // Optional client; a fresh one is used when nil
}

// HTTPFetcher is a Fetcher backed by net/http GET requests.
type HTTPFetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// New creates an HTTPFetcher with the given configuration.
func New(cfg Config) *HTTPFetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{}
	}
	return &HTTPFetcher{
		client:    cfg.Client,
		timeout:   cfg.Timeout,
		userAgent: cfg.UserAgent,
	}
}

// Fetch issues a GET for rawURL. Any status outside 2xx is a *FetchError.
// The per-request deadline stays armed until the returned body is closed.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.timeout)

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		cancel()
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		cancel()
		return nil, &FetchError{URL: rawURL, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		cancel()
		return nil, &FetchError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	return &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}, nil
}

// cancelOnClose releases the request context once the body is closed.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	if err != nil {
		return fmt.Errorf("close response body: %w", err)
	}
	return nil
}
