package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lukemcguire/docgrab/result"
)

// ProgressMsg carries one progress event from the pipeline.
type ProgressMsg struct {
	Event result.Event
}

// RunDoneMsg signals the pipeline has returned.
type RunDoneMsg struct {
	Report *result.Report
	Err    error
}

// waitForProgress returns a tea.Cmd that reads one event from the progress
// channel. A closed channel yields no message; the final report comes from
// startRun.
func waitForProgress(ch <-chan result.Event) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return nil
		}
		return ProgressMsg{Event: evt}
	}
}
