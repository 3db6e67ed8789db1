package runner

import (
	"time"

	"m3run/internal/experiment"
)

// ExperimentStart describes an experiment about to launch.
type ExperimentStart struct {
	Index       int
	Total       int
	Experiment  PlannedExperiment
	CommandLine string
	LogPath     string
	StartedAt   time.Time
}

// RunObserver receives run lifecycle events for UI or logging.
//
// Observers are called from the driver goroutine and must not block.
type RunObserver interface {
	// OnRunStart signals the start of a batch with its full plan.
	OnRunStart(runID string, mode experiment.Mode, plan []PlannedExperiment)
	// OnExperimentStart signals a trainer launch.
	OnExperimentStart(start ExperimentStart)
	// OnExperimentEnd delivers the recorded result.
	OnExperimentEnd(index int, result RunResult)
	// OnExperimentAborted signals that a started experiment was cancelled
	// before producing a result.
	OnExperimentAborted(index int, planned PlannedExperiment)
	// OnRunEnd signals batch completion, including interrupted batches.
	OnRunEnd(summary Summary)
}

// Observers fans events out to several observers in order. Nil entries are skipped.
type Observers []RunObserver

// OnRunStart implements RunObserver.
func (o Observers) OnRunStart(runID string, mode experiment.Mode, plan []PlannedExperiment) {
	for _, observer := range o {
		if observer != nil {
			observer.OnRunStart(runID, mode, plan)
		}
	}
}

// OnExperimentStart implements RunObserver.
func (o Observers) OnExperimentStart(start ExperimentStart) {
	for _, observer := range o {
		if observer != nil {
			observer.OnExperimentStart(start)
		}
	}
}

// OnExperimentEnd implements RunObserver.
func (o Observers) OnExperimentEnd(index int, result RunResult) {
	for _, observer := range o {
		if observer != nil {
			observer.OnExperimentEnd(index, result)
		}
	}
}

// OnExperimentAborted implements RunObserver.
func (o Observers) OnExperimentAborted(index int, planned PlannedExperiment) {
	for _, observer := range o {
		if observer != nil {
			observer.OnExperimentAborted(index, planned)
		}
	}
}

// OnRunEnd implements RunObserver.
func (o Observers) OnRunEnd(summary Summary) {
	for _, observer := range o {
		if observer != nil {
			observer.OnRunEnd(summary)
		}
	}
}
