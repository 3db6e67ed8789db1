package live

import (
	"m3run/internal/experiment"
	"m3run/internal/runner"
)

// EventKind identifies the type of live UI event.
type EventKind int

const (
	// EventRunStart signals the start of a run.
	EventRunStart EventKind = iota
	// EventExperimentStart signals a trainer launch.
	EventExperimentStart
	// EventExperimentEnd delivers a recorded result.
	EventExperimentEnd
	// EventRunEnd signals run completion.
	EventRunEnd
	// EventExperimentAborted signals a cancelled trainer.
	EventExperimentAborted
)

// Event carries a UI update payload.
type Event struct {
	Kind    EventKind
	RunID   string
	Mode    experiment.Mode
	Plan    []runner.PlannedExperiment
	Start   runner.ExperimentStart
	Index   int
	Result  runner.RunResult
	Summary runner.Summary
}
