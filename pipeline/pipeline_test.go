package pipeline_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lukemcguire/docgrab/fetch"
	"github.com/lukemcguire/docgrab/pipeline"
	"github.com/lukemcguire/docgrab/result"
)

// newSite serves an HTML manual with two sub-pages, a broken link and
// two documents, one linked only from the base page.
func newSite(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/manual", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<a href="/manual/a">A</a><a href="/manual/gone">gone</a><a href="/files/cover.pdf">cover</a>`)
	})
	mux.HandleFunc("/manual/a", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<a href="b">B</a><a href="/manual">up</a><a href="/files/spec.pdf">spec</a>`)
	})
	mux.HandleFunc("/manual/b", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<a href="/files/spec.pdf#page=2">spec again</a><a href="/other">out of scope</a>`)
	})
	mux.HandleFunc("/files/spec.pdf", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "%PDF spec")
	})
	mux.HandleFunc("/files/cover.pdf", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "%PDF cover")
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func newConfig(ts *httptest.Server, destDir string) pipeline.Config {
	return pipeline.Config{
		BaseURL: ts.URL + "/manual",
		DestDir: destDir,
		Fetcher: fetch.New(fetch.Config{Timeout: 5 * time.Second}),
	}
}

func TestRun(t *testing.T) {
	ts := newSite(t)
	destDir := t.TempDir()

	rep, err := pipeline.Run(context.Background(), newConfig(ts, destDir))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	wantPages := []string{ts.URL + "/manual/a", ts.URL + "/manual/b", ts.URL + "/manual/gone"}
	if strings.Join(rep.Pages, " ") != strings.Join(wantPages, " ") {
		t.Errorf("Pages = %v, want %v", rep.Pages, wantPages)
	}
	if len(rep.Documents) != 1 || rep.Documents[0] != ts.URL+"/files/spec.pdf" {
		t.Errorf("Documents = %v, want only spec.pdf", rep.Documents)
	}
	if rep.Stats.Written != 1 || rep.Stats.Failed != 0 {
		t.Errorf("Stats = %+v, want one written document", rep.Stats)
	}
	if rep.Stats.PageFailures != 1 || len(rep.PageFailures) != 1 {
		t.Fatalf("expected one page failure, got %+v", rep.PageFailures)
	}
	if rep.PageFailures[0].URL != ts.URL+"/manual/gone" {
		t.Errorf("page failure URL = %q", rep.PageFailures[0].URL)
	}
	if rep.HasFailures() {
		t.Error("HasFailures() = true, want false")
	}

	data, err := os.ReadFile(filepath.Join(destDir, "spec.pdf"))
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if string(data) != "%PDF spec" {
		t.Errorf("content = %q, want %q", data, "%PDF spec")
	}
}

func TestRunTwiceSkipsIdentical(t *testing.T) {
	ts := newSite(t)
	destDir := t.TempDir()
	cfg := newConfig(ts, destDir)

	if _, err := pipeline.Run(context.Background(), cfg); err != nil {
		t.Fatalf("first Run() error: %v", err)
	}
	rep, err := pipeline.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("second Run() error: %v", err)
	}
	if rep.Stats.Skipped != 1 || rep.Stats.Written != 0 {
		t.Errorf("second run Stats = %+v, want one skipped document", rep.Stats)
	}
}

func TestRunIncludeBase(t *testing.T) {
	ts := newSite(t)
	cfg := newConfig(ts, t.TempDir())
	cfg.IncludeBase = true

	rep, err := pipeline.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	want := []string{ts.URL + "/files/cover.pdf", ts.URL + "/files/spec.pdf"}
	if strings.Join(rep.Documents, " ") != strings.Join(want, " ") {
		t.Errorf("Documents = %v, want %v", rep.Documents, want)
	}
	if rep.Stats.Written != 2 {
		t.Errorf("Written = %d, want 2", rep.Stats.Written)
	}
}

func TestRunLogs(t *testing.T) {
	ts := newSite(t)
	cfg := newConfig(ts, t.TempDir())

	var buf bytes.Buffer
	cfg.Logger = log.New(&buf)

	if _, err := pipeline.Run(context.Background(), cfg); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	for _, want := range []string{"crawling", "collected documents", "run finished", "skipping unreachable page"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected log to contain %q, log was: %s", want, buf.String())
		}
	}
}

func TestRunEvents(t *testing.T) {
	ts := newSite(t)
	cfg := newConfig(ts, t.TempDir())

	events := make(chan result.Event, 64)
	cfg.Events = events

	if _, err := pipeline.Run(context.Background(), cfg); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	close(events)

	phases := make(map[result.Phase]int)
	for evt := range events {
		phases[evt.Phase]++
	}
	for _, p := range []result.Phase{result.PhaseCrawl, result.PhaseCollect, result.PhaseDownload} {
		if phases[p] == 0 {
			t.Errorf("expected at least one %s event, got %v", p, phases)
		}
	}
}

func TestRunBaseUnreachable(t *testing.T) {
	ts := newSite(t)
	cfg := newConfig(ts, t.TempDir())
	cfg.BaseURL = ts.URL + "/missing"

	_, err := pipeline.Run(context.Background(), cfg)
	var fetchErr *fetch.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *fetch.FetchError, got %v", err)
	}
	if fetchErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", fetchErr.StatusCode)
	}
}

func TestRunRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  pipeline.Config
	}{
		{name: "non-http base", cfg: pipeline.Config{BaseURL: "ftp://example.com/manual", DestDir: "pdfs", Fetcher: fetch.New(fetch.Config{})}},
		{name: "empty dest", cfg: pipeline.Config{BaseURL: "https://example.com/manual", Fetcher: fetch.New(fetch.Config{})}},
		{name: "no fetcher", cfg: pipeline.Config{BaseURL: "https://example.com/manual", DestDir: "pdfs"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := pipeline.Run(context.Background(), tt.cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
}
