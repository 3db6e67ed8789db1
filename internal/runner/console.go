package runner

import (
	"fmt"
	"io"
	"strings"

	"m3run/internal/experiment"
	"m3run/internal/trainer"
)

const bannerWidth = 80

// ConsoleObserver prints plain progress banners.
type ConsoleObserver struct {
	Out io.Writer
}

// NewConsoleObserver returns a console observer writing to out.
func NewConsoleObserver(out io.Writer) *ConsoleObserver {
	return &ConsoleObserver{Out: out}
}

func (c *ConsoleObserver) OnRunStart(runID string, mode experiment.Mode, plan []PlannedExperiment) {
	if c == nil || c.Out == nil {
		return
	}
	rule := strings.Repeat("=", bannerWidth)
	fmt.Fprintln(c.Out, rule)
	fmt.Fprintf(c.Out, "Run %s | mode: %s\n", runID, mode)
	fmt.Fprintf(c.Out, "Experiments: %d\n", len(plan))
	fmt.Fprintln(c.Out, rule)
}

func (c *ConsoleObserver) OnExperimentStart(start ExperimentStart) {
	if c == nil || c.Out == nil {
		return
	}
	rule := strings.Repeat("=", bannerWidth)
	fmt.Fprintf(c.Out, "\nProgress: %d/%d\n", start.Index+1, start.Total)
	fmt.Fprintln(c.Out, rule)
	fmt.Fprintf(c.Out, "Running: %s | lr: %s\n", start.Experiment.Spec, trainer.FormatLearningRate(start.Experiment.LearningRate))
	if start.CommandLine != "" {
		fmt.Fprintf(c.Out, "Command: %s\n", start.CommandLine)
	}
	if start.LogPath != "" {
		fmt.Fprintf(c.Out, "Log: %s\n", start.LogPath)
	}
	fmt.Fprintln(c.Out, rule)
}

func (c *ConsoleObserver) OnExperimentEnd(_ int, result RunResult) {
	if c == nil || c.Out == nil {
		return
	}
	fmt.Fprintln(c.Out, formatResultLine(result))
}

func (c *ConsoleObserver) OnExperimentAborted(_ int, planned PlannedExperiment) {
	if c == nil || c.Out == nil {
		return
	}
	fmt.Fprintf(c.Out, "\n✗ interrupted: %s\n", planned.Spec)
}

func (c *ConsoleObserver) OnRunEnd(summary Summary) {
	if c == nil || c.Out == nil {
		return
	}
	PrintSummary(c.Out, summary)
}

// PrintSummary writes the final tally and the failed experiments.
func PrintSummary(out io.Writer, summary Summary) {
	rule := strings.Repeat("=", bannerWidth)
	fmt.Fprintln(out)
	fmt.Fprintln(out, rule)
	if summary.Interrupted {
		fmt.Fprintf(out, "Run interrupted after %d/%d experiments\n", summary.Total, summary.Planned)
	} else {
		fmt.Fprintln(out, "All experiments finished")
	}
	fmt.Fprintln(out, rule)
	fmt.Fprintf(out, "Total: %d\n", summary.Total)
	fmt.Fprintf(out, "Success: %d\n", summary.Success)
	fmt.Fprintf(out, "Failed: %d\n", summary.Failed)
	failed := summary.FailedResults()
	if len(failed) > 0 {
		fmt.Fprintln(out, "Failed experiments:")
		for _, result := range failed {
			fmt.Fprintf(out, "  - %s (%s)\n", result.Spec(), failureReason(result))
		}
	}
	fmt.Fprintln(out, rule)
}

// formatResultLine renders the pass/fail line for a result.
func formatResultLine(result RunResult) string {
	if result.Success {
		return fmt.Sprintf("✓ completed: %s (%.1fs)", result.Spec(), result.DurationSeconds)
	}
	return fmt.Sprintf("✗ failed: %s (%s)", result.Spec(), failureReason(result))
}

// failureReason summarizes why an experiment failed.
func failureReason(result RunResult) string {
	switch {
	case result.TimedOut:
		return fmt.Sprintf("timed out after %.1fs", result.DurationSeconds)
	case result.Error != "":
		return result.Error
	default:
		return fmt.Sprintf("exit code %d", result.ExitCode)
	}
}
