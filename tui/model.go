// Package tui provides the Bubble Tea terminal UI for docgrab, displaying
// live crawl and download progress and a styled summary of the run.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lukemcguire/docgrab/result"
)

// RunFunc executes one pipeline run.
type RunFunc func(ctx context.Context) (*result.Report, error)

// Model is the Bubble Tea model for a docgrab run.
type Model struct {
	ctx        context.Context
	cancel     context.CancelFunc
	run        RunFunc
	spinner    spinner.Model
	progressCh <-chan result.Event

	phase    result.Phase
	done     int
	total    int
	failed   int
	current  string
	quitting bool
	finished bool
	report   *result.Report
	err      error
	width    int
}

// NewModel creates a TUI model that executes run and listens on progressCh.
func NewModel(ctx context.Context, cancel context.CancelFunc, run RunFunc, progressCh <-chan result.Event) Model {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return Model{
		ctx:        ctx,
		cancel:     cancel,
		run:        run,
		spinner:    spin,
		progressCh: progressCh,
		phase:      result.PhaseCrawl,
	}
}

// Init starts the spinner, the run, and the progress listener concurrently.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startRun(), waitForProgress(m.progressCh))
}

// startRun returns a tea.Cmd that runs the pipeline and sends RunDoneMsg.
func (m Model) startRun() tea.Cmd {
	return func() tea.Msg {
		rep, err := m.run(m.ctx)
		return RunDoneMsg{Report: rep, Err: err}
	}
}

// Update handles messages from the Bubble Tea runtime.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			m.cancel()
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case ProgressMsg:
		evt := msg.Event
		if evt.Phase != m.phase {
			m.phase = evt.Phase
			m.failed = 0
		}
		m.done = evt.Done
		m.total = evt.Total
		m.current = evt.URL
		if evt.Error != "" {
			m.failed++
		}
		return m, waitForProgress(m.progressCh)

	case RunDoneMsg:
		m.finished = true
		m.report = msg.Report
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the current TUI state.
func (m Model) View() string {
	if m.finished && m.report != nil {
		view := RenderSummary(m.report)
		if m.err != nil {
			view += errorStyle.Render("Error: "+m.err.Error()) + "\n"
		}
		return view
	}
	if m.finished && m.err != nil {
		return errorStyle.Render("Error: "+m.err.Error()) + "\n"
	}
	if m.quitting {
		return dimStyle.Render("Canceled.") + "\n"
	}

	current := m.current
	if m.width > 10 && len(current) > m.width-4 {
		current = current[:m.width-7] + "..."
	}
	return fmt.Sprintf("%s %s... %d/%d, %d failed\n%s\n",
		m.spinner.View(), phaseLabel(m.phase), m.done, m.total, m.failed,
		dimStyle.Render("  "+current))
}

// HasFailures reports whether the run failed or any document failed.
func (m Model) HasFailures() bool {
	return m.err != nil || m.report.HasFailures()
}

// GetReport returns the run report for output formatting.
func (m Model) GetReport() *result.Report {
	return m.report
}

// Err returns the error the run ended with, if any.
func (m Model) Err() error {
	return m.err
}

func phaseLabel(p result.Phase) string {
	switch p {
	case result.PhaseCollect:
		return "Collecting documents"
	case result.PhaseDownload:
		return "Downloading"
	default:
		return "Crawling pages"
	}
}
