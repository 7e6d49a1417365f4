package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lukemcguire/docgrab/result"
)

var (
	titleStyle       = lipgloss.NewStyle().Bold(true)
	successStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	errorStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	headerStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	sectionStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	dimStyle         = lipgloss.NewStyle().Faint(true)
	cellStyle        = lipgloss.NewStyle()
	statusErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// outcomeOrder defines the display order for outcomes (most to least actionable).
var outcomeOrder = []result.Outcome{
	result.OutcomeFailed,
	result.OutcomeReplaced,
	result.OutcomeWritten,
	result.OutcomeSkipped,
}

var outcomeTitles = map[result.Outcome]string{
	result.OutcomeFailed:   "Failed",
	result.OutcomeReplaced: "Replaced",
	result.OutcomeWritten:  "Written",
	result.OutcomeSkipped:  "Already up to date",
}

// RenderSummary produces a Lip Gloss styled summary of a run.
func RenderSummary(rep *result.Report) string {
	if rep == nil {
		return errorStyle.Render("No results available.")
	}

	var builder strings.Builder

	if len(rep.PageFailures) > 0 {
		builder.WriteString(sectionStyle.Render(fmt.Sprintf("## Unreachable pages (%d)", len(rep.PageFailures))))
		builder.WriteString("\n")
		rows := make([][]string, 0, len(rep.PageFailures))
		for _, pf := range rep.PageFailures {
			rows = append(rows, []string{pf.URL, result.FormatCategory(pf.ErrorCategory)})
		}
		builder.WriteString(renderTable([]string{"URL", "Error"}, rows, 1))
		builder.WriteString("\n\n")
	}

	// Group records by outcome
	grouped := make(map[result.Outcome][]result.DownloadRecord)
	for _, rec := range rep.Records {
		grouped[rec.Outcome] = append(grouped[rec.Outcome], rec)
	}

	for _, outcome := range outcomeOrder {
		records := grouped[outcome]
		if len(records) == 0 {
			continue
		}

		builder.WriteString(sectionStyle.Render(fmt.Sprintf("## %s (%d)", outcomeTitles[outcome], len(records))))
		builder.WriteString("\n")

		rows := make([][]string, 0, len(records))
		for _, rec := range records {
			detail := formatBytes(rec.Bytes)
			if outcome == result.OutcomeFailed {
				detail = rec.Error
			}
			rows = append(rows, []string{rec.Filename, rec.URL, detail})
		}

		errCol := -1
		if outcome == result.OutcomeFailed {
			errCol = 2
		}
		builder.WriteString(renderTable([]string{"File", "URL", "Detail"}, rows, errCol))
		builder.WriteString("\n\n")
	}

	// Summary stats
	builder.WriteString(titleStyle.Render(fmt.Sprintf(
		"Crawled %d pages, found %d documents (%s)",
		rep.Stats.Pages,
		rep.Stats.Documents,
		rep.Stats.Duration.Round(time.Millisecond),
	)))
	builder.WriteString("\n")
	builder.WriteString(dimStyle.Render(fmt.Sprintf(
		"Written %d, replaced %d, skipped %d, failed %d",
		rep.Stats.Written, rep.Stats.Replaced, rep.Stats.Skipped, rep.Stats.Failed,
	)))
	builder.WriteString("\n")

	if rep.Stats.Failed == 0 {
		builder.WriteString(successStyle.Render("All documents downloaded successfully."))
	} else {
		builder.WriteString(errorStyle.Render(fmt.Sprintf("%d documents failed to download.", rep.Stats.Failed)))
	}
	builder.WriteString("\n")

	return builder.String()
}

// renderTable draws a rounded table; errCol, when not -1, is highlighted.
func renderTable(headers []string, rows [][]string, errCol int) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == errCol {
				return statusErrorStyle
			}
			return cellStyle
		}).
		Rows(rows...).
		Render()
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
