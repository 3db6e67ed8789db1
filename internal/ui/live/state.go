package live

import (
	"time"

	"m3run/internal/experiment"
)

// RowStatus is the display state of one experiment.
type RowStatus string

const (
	StatusQueued  RowStatus = "queued"
	StatusRunning RowStatus = "running"
	StatusPassed  RowStatus = "passed"
	StatusFailed  RowStatus = "failed"
	StatusAborted RowStatus = "interrupted"
)

// ExperimentRow holds UI state for a single experiment.
type ExperimentRow struct {
	Index        int
	Spec         experiment.Spec
	LearningRate float64
	Status       RowStatus
	StartedAt    time.Time
	FinishedAt   time.Time
	Duration     time.Duration
	ExitCode     int
	TimedOut     bool
	Error        string
	LogPath      string
}

// StatusCounts aggregates counts by status bucket.
type StatusCounts struct {
	Queued  int
	Running int
	Done    int
	Passed  int
	Failed  int
	Aborted int
}

// State captures the live UI state for a batch.
type State struct {
	RunID       string
	Mode        experiment.Mode
	StartedAt   time.Time
	Current     string
	LastEvent   string
	Finished    bool
	Interrupted bool
	Rows        []ExperimentRow
	Counts      StatusCounts
}
