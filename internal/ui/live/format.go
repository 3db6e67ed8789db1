package live

import (
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"

	"m3run/internal/trainer"
)

// formatIndex formats a 1-based experiment position.
func formatIndex(index int) string {
	return "#" + pad2(index+1)
}

// pad2 left-pads a number to two digits when needed.
func pad2(value int) string {
	if value >= 10 {
		return fmtInt(value)
	}
	return "0" + fmtInt(value)
}

// fmtInt converts an int to string.
func fmtInt(value int) string {
	return strconv.Itoa(value)
}

// formatStatus renders a status string for a row.
func formatStatus(row ExperimentRow, noColor bool) string {
	label := string(row.Status)
	if row.Status == StatusFailed {
		switch {
		case row.TimedOut:
			label = "timed out"
		case row.Error != "":
			label = "error"
		default:
			label = "failed (exit " + fmtInt(row.ExitCode) + ")"
		}
	}
	return stylizeStatus(label, row.Status, noColor)
}

// formatRowDuration returns elapsed or total time for a row.
func formatRowDuration(row ExperimentRow, now time.Time) string {
	if row.Status == StatusPassed || row.Status == StatusFailed {
		return formatDuration(row.Duration)
	}
	if row.Status == StatusRunning && !row.StartedAt.IsZero() {
		return formatDuration(now.Sub(row.StartedAt))
	}
	return ""
}

// formatRate renders the learning rate the way the trainer receives it.
func formatRate(rate float64) string {
	if rate <= 0 {
		return ""
	}
	return trainer.FormatLearningRate(rate)
}

// stylizeStatus applies status coloring when enabled.
func stylizeStatus(text string, status RowStatus, noColor bool) string {
	if noColor {
		return text
	}
	return statusStyle(status).Render(text)
}

// statusStyle selects a style for a given status.
func statusStyle(status RowStatus) lipgloss.Style {
	color := lipgloss.Color("244")
	switch status {
	case StatusPassed:
		color = lipgloss.Color("42")
	case StatusFailed:
		color = lipgloss.Color("196")
	case StatusRunning:
		color = lipgloss.Color("33")
	case StatusAborted:
		color = lipgloss.Color("214")
	case StatusQueued:
		color = lipgloss.Color("246")
	}
	return lipgloss.NewStyle().Foreground(color)
}
