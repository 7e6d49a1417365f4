package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lukemcguire/docgrab/urlutil"
)

// CLI is the docgrab command line.
type CLI struct {
	URL            string        `help:"Base URL to crawl. Only links that start with it are followed." short:"u" default:"https://www.motorsport.org.au/regulations/manual"`
	SaveDir        string        `help:"Directory to save documents into." short:"s" type:"path" default:"pdfs"`
	Ext            string        `help:"File extension of documents to download." default:".pdf"`
	Concurrency    int           `help:"Number of concurrent fetches." short:"c" default:"4"`
	RequestTimeout time.Duration `help:"Timeout for each HTTP request." default:"30s"`
	Timeout        time.Duration `help:"Overall deadline for the run (0 for none)." default:"0s"`
	IncludeBase    bool          `help:"Also download documents linked from the base page."`
	Format         string        `help:"Report format (${enum})." enum:"text,json,csv" default:"text"`
	NoTUI          bool          `help:"Disable the interactive progress view." name:"no-tui"`
	LogLevel       string        `help:"Log level (${enum})." enum:"debug,info,warn,error" default:"info"`
	LogFile        string        `help:"Write logs to this file instead of stderr." type:"path"`
	UserAgent      string        `help:"User-Agent header sent with each request." default:"${user_agent}"`
}

// Validate rejects flag combinations that cannot produce a run.
func (c *CLI) Validate() error {
	if !urlutil.IsHTTPScheme(c.URL) {
		return fmt.Errorf("invalid URL %q: URL must start with http:// or https://", c.URL)
	}
	if c.Ext == "" {
		return fmt.Errorf("--ext must not be empty")
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("--concurrency must be at least 1, got %d", c.Concurrency)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	return nil
}

// interactive reports whether the Bubble Tea view should drive the run.
func (c *CLI) interactive() bool {
	return !c.NoTUI && c.Format == "text"
}
