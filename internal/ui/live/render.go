package live

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the run header line.
func renderHeader(state State, now time.Time, noColor bool) string {
	line := "Run " + state.RunID
	if state.Mode != "" {
		line += " | Mode: " + string(state.Mode)
	}
	if !state.StartedAt.IsZero() {
		elapsed := max(now.Sub(state.StartedAt), 0)
		line += " | Elapsed: " + elapsed.Round(time.Second).String()
	}
	return stylize(line, noColor, lipgloss.Color("33"))
}

// renderSummary renders the status counts line.
func renderSummary(state State, noColor bool) string {
	counts := state.Counts
	line := "Queued: " + fmtInt(counts.Queued) +
		" Running: " + fmtInt(counts.Running) +
		" Done: " + fmtInt(counts.Done) + "/" + fmtInt(len(state.Rows)) +
		" Passed: " + fmtInt(counts.Passed) +
		" Failed: " + fmtInt(counts.Failed)
	return stylize(line, noColor, lipgloss.Color("242"))
}

// renderCurrentLine renders the running experiment.
func renderCurrentLine(state State, noColor bool) string {
	if state.Current == "" {
		return ""
	}
	return stylize("Running "+state.Current, noColor, lipgloss.Color("240"))
}

// renderFooter renders the last event line.
func renderFooter(state State, noColor bool) string {
	if state.LastEvent == "" {
		return ""
	}
	return stylize("Last event: "+state.LastEvent, noColor, lipgloss.Color("244"))
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
