// Package main provides the docgrab CLI entrypoint.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/lukemcguire/docgrab/fetch"
	"github.com/lukemcguire/docgrab/pipeline"
	"github.com/lukemcguire/docgrab/result"
	"github.com/lukemcguire/docgrab/tui"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run parses args, performs one crawl-and-download pass and returns the
// process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("docgrab"),
		kong.Description("Crawl a site and download every linked document."),
		kong.Writers(stdout, stderr),
		kong.Vars{"user_agent": fetch.DefaultUserAgent},
		kong.UsageOnError(),
	)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	if _, err := parser.Parse(args); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	logOut, closeLog, err := openLogOutput(&cli, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	defer closeLog()

	level, _ := log.ParseLevel(cli.LogLevel)
	logger := log.NewWithOptions(logOut, log.Options{
		Level:           level,
		Prefix:          "docgrab",
		ReportTimestamp: true,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if cli.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, cli.Timeout)
		defer cancel()
	}

	fetcher := fetch.New(fetch.Config{
		Timeout:   cli.RequestTimeout,
		UserAgent: cli.UserAgent,
	})
	cfg := pipeline.Config{
		BaseURL:     cli.URL,
		DestDir:     cli.SaveDir,
		Extension:   cli.Ext,
		Concurrency: cli.Concurrency,
		IncludeBase: cli.IncludeBase,
		Fetcher:     fetcher,
		Logger:      logger,
	}

	if cli.interactive() {
		return runInteractive(ctx, cancel, cfg, logger, stderr)
	}

	rep, err := pipeline.Run(ctx, cfg)
	if err != nil {
		logger.Error("run failed", "err", err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	if rep != nil {
		if writeErr := writeReport(stdout, cli.Format, rep); writeErr != nil {
			fmt.Fprintf(stderr, "Error: %v\n", writeErr)
			return exitFailure
		}
	}
	if err != nil || rep.HasFailures() {
		return exitFailure
	}
	return exitOK
}

// runInteractive drives the pipeline from the Bubble Tea progress view.
func runInteractive(ctx context.Context, cancel context.CancelFunc, cfg pipeline.Config, logger *log.Logger, stderr io.Writer) int {
	progressCh := make(chan result.Event, 100)
	cfg.Events = progressCh

	runFn := func(ctx context.Context) (*result.Report, error) {
		return pipeline.Run(ctx, cfg)
	}
	program := tea.NewProgram(tui.NewModel(ctx, cancel, runFn, progressCh))

	finalModel, err := program.Run()
	if err != nil {
		logger.Error("terminal UI failed", "err", err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}

	final := finalModel.(tui.Model)
	if final.Err() != nil {
		logger.Error("run failed", "err", final.Err())
	}
	if final.GetReport() == nil || final.HasFailures() {
		return exitFailure
	}
	return exitOK
}

// openLogOutput picks the log destination: --log-file when given, stderr
// in plain mode, and nowhere while the TUI owns the terminal.
func openLogOutput(cli *CLI, stderr io.Writer) (io.Writer, func(), error) {
	if cli.LogFile != "" {
		f, err := os.OpenFile(cli.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		return f, func() { _ = f.Close() }, nil
	}
	if cli.interactive() {
		return io.Discard, func() {}, nil
	}
	return stderr, func() {}, nil
}

func writeReport(w io.Writer, format string, rep *result.Report) error {
	switch format {
	case "json":
		return result.WriteJSON(w, rep.Records)
	case "csv":
		return result.WriteCSV(w, rep.Records)
	case "text":
		result.PrintReport(w, rep)
		return nil
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}
