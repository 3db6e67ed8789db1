package live

import (
	"fmt"
	"time"

	"m3run/internal/runner"
)

// Reduce applies a run event to the UI state.
func Reduce(state State, event Event) State {
	switch event.Kind {
	case EventRunStart:
		state.RunID = event.RunID
		state.Mode = event.Mode
		state.Rows = make([]ExperimentRow, len(event.Plan))
		for i, planned := range event.Plan {
			state.Rows[i] = ExperimentRow{
				Index:        i,
				Spec:         planned.Spec,
				LearningRate: planned.LearningRate,
				Status:       StatusQueued,
			}
		}
		state.LastEvent = fmt.Sprintf("Run started with %d experiments", len(event.Plan))
	case EventExperimentStart:
		state = ensureRow(state, event.Start.Index)
		row := state.Rows[event.Start.Index]
		row.Spec = event.Start.Experiment.Spec
		row.LearningRate = event.Start.Experiment.LearningRate
		row.Status = StatusRunning
		row.StartedAt = event.Start.StartedAt
		row.LogPath = event.Start.LogPath
		state.Rows[event.Start.Index] = row
		state.Current = row.Spec.String()
		state.LastEvent = fmt.Sprintf("#%d %s started", event.Start.Index+1, row.Spec.ID())
	case EventExperimentEnd:
		state = ensureRow(state, event.Index)
		state.Rows[event.Index] = applyResult(state.Rows[event.Index], event.Result)
		state.Current = ""
		state.LastEvent = formatResultEvent(event.Index, event.Result)
	case EventExperimentAborted:
		state = ensureRow(state, event.Index)
		row := state.Rows[event.Index]
		row.Status = StatusAborted
		row.Spec = event.Start.Experiment.Spec
		state.Rows[event.Index] = row
		state.Current = ""
		state.LastEvent = fmt.Sprintf("#%d %s interrupted", event.Index+1, row.Spec.ID())
	case EventRunEnd:
		state.Finished = true
		state.Interrupted = event.Summary.Interrupted
		state.Current = ""
		if event.Summary.Interrupted {
			state.LastEvent = fmt.Sprintf("Run interrupted after %d/%d experiments", event.Summary.Total, event.Summary.Planned)
		} else {
			state.LastEvent = fmt.Sprintf("Run finished: %d passed, %d failed", event.Summary.Success, event.Summary.Failed)
		}
	}
	state.Counts = recount(state.Rows)
	return state
}

// ensureRow grows the state rows to include the target index.
func ensureRow(state State, index int) State {
	if index < len(state.Rows) {
		return state
	}
	rows := make([]ExperimentRow, index+1)
	copy(rows, state.Rows)
	for i := len(state.Rows); i < len(rows); i++ {
		rows[i] = ExperimentRow{Index: i, Status: StatusQueued}
	}
	state.Rows = rows
	return state
}

// applyResult records a finished experiment on its row.
func applyResult(row ExperimentRow, result runner.RunResult) ExperimentRow {
	row.Spec = result.Spec()
	row.Status = StatusFailed
	if result.Success {
		row.Status = StatusPassed
	}
	row.FinishedAt = result.Timestamp
	row.Duration = time.Duration(result.DurationSeconds * float64(time.Second))
	row.ExitCode = result.ExitCode
	row.TimedOut = result.TimedOut
	row.Error = result.Error
	if result.LogPath != "" {
		row.LogPath = result.LogPath
	}
	return row
}

// recount recomputes status counts for the current rows.
func recount(rows []ExperimentRow) StatusCounts {
	var counts StatusCounts
	for _, row := range rows {
		switch row.Status {
		case StatusQueued:
			counts.Queued++
		case StatusRunning:
			counts.Running++
		case StatusPassed:
			counts.Done++
			counts.Passed++
		case StatusFailed:
			counts.Done++
			counts.Failed++
		case StatusAborted:
			counts.Aborted++
		}
	}
	return counts
}

// formatResultEvent creates a short footer message for a result.
func formatResultEvent(index int, result runner.RunResult) string {
	id := result.Spec().ID()
	switch {
	case result.Success:
		return fmt.Sprintf("#%d %s passed (%s)", index+1, id, formatDuration(time.Duration(result.DurationSeconds*float64(time.Second))))
	case result.TimedOut:
		return fmt.Sprintf("#%d %s timed out", index+1, id)
	case result.Error != "":
		return fmt.Sprintf("#%d %s error: %s", index+1, id, result.Error)
	default:
		return fmt.Sprintf("#%d %s failed (exit code %d)", index+1, id, result.ExitCode)
	}
}

// formatDuration renders a rounded duration for display.
func formatDuration(duration time.Duration) string {
	if duration <= 0 {
		return "0s"
	}
	return duration.Round(100 * time.Millisecond).String()
}
