package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"scribe/internal/usecase"
)

var (
	successColor = lipgloss.Color("#10B981")
	errorColor   = lipgloss.Color("#EF4444")
	mutedColor   = lipgloss.Color("#6B7280")
	borderColor  = lipgloss.Color("#374151")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(successColor)
	labelStyle = lipgloss.NewStyle().Foreground(mutedColor).Width(16)
	failStyle  = lipgloss.NewStyle().Foreground(errorColor)
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1)
)

func row(label string, value any) string {
	return labelStyle.Render(label) + fmt.Sprint(value)
}

// renderNotesReport summarizes a notes run for the terminal.
func renderNotesReport(r *usecase.NotesResult, elapsed time.Duration) string {
	lines := []string{
		titleStyle.Render("Notes complete"),
		"",
		row("Documents", len(r.Summaries)),
		row("Skipped", len(r.Failed)),
		row("Merge chunks", r.Final.Chunks),
		row("Merge calls", r.Final.Calls),
		row("Elapsed", formatDuration(elapsed)),
	}
	for _, t := range r.Transcripts {
		lines = append(lines, row("Transcript", t))
	}
	if r.OutputPath != "" {
		lines = append(lines, row("Notes", r.OutputPath))
	}
	if len(r.Failed) > 0 {
		lines = append(lines, "", failStyle.Render("Skipped documents:"))
		for _, f := range r.Failed {
			lines = append(lines, failStyle.Render("  - "+f.Path+": "+f.Err.Error()))
		}
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}
