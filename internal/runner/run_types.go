package runner

import (
	"io"
	"time"

	"m3run/internal/experiment"
	"m3run/internal/trainer"
	"m3run/internal/vcs"
)

// RunDependencies allows injecting the clock and run ID generator.
type RunDependencies struct {
	RunID func() (string, error)
	Now   func() time.Time
}

// RunParams configures a batch run.
type RunParams struct {
	Mode         experiment.Mode
	Plan         []PlannedExperiment
	GPU          string
	Epochs       int
	Command      []string
	Trainer      trainer.Trainer
	SummaryPath  string
	LogsDir      string
	FlushEachRun bool
	Observer     RunObserver
	// TrainerStdout and TrainerStderr receive child output. Nil discards it.
	TrainerStdout    io.Writer
	TrainerStderr    io.Writer
	Warnings         io.Writer
	Verbose          bool
	VerboseWriter    io.Writer
	VerboseLogWriter io.Writer
	NoColor          bool
	// Revision is the trainer checkout, when it is a git work tree.
	Revision *vcs.Revision
	Deps     RunDependencies
}

// RunResult records the outcome of one experiment. It is never mutated after
// being appended to a summary.
type RunResult struct {
	Dataset         experiment.Dataset `json:"dataset"`
	DomainNum       int                `json:"domain_num"`
	Model           string             `json:"model"`
	Success         bool               `json:"success"`
	Timestamp       time.Time          `json:"timestamp"`
	LearningRate    float64            `json:"lr"`
	ExitCode        int                `json:"exit_code"`
	DurationSeconds float64            `json:"duration_seconds"`
	TimedOut        bool               `json:"timed_out,omitempty"`
	Error           string             `json:"error,omitempty"`
	LogPath         string             `json:"log_path,omitempty"`
}

// Spec returns the experiment tuple the result belongs to.
func (r RunResult) Spec() experiment.Spec {
	return experiment.Spec{Dataset: r.Dataset, DomainNum: r.DomainNum, Model: r.Model}
}

// Summary is the persisted JSON document for a batch.
type Summary struct {
	RunID       string          `json:"run_id"`
	Mode        experiment.Mode `json:"mode"`
	GPU         string          `json:"gpu"`
	Epochs      int             `json:"epochs"`
	Planned     int             `json:"planned"`
	Total       int             `json:"total"`
	Success     int             `json:"success"`
	Failed      int             `json:"failed"`
	Interrupted bool            `json:"interrupted"`
	Results     []RunResult     `json:"results"`
	StartTime   time.Time       `json:"start_time"`
	EndTime     time.Time       `json:"end_time"`
	// TrainerRevision is omitted when the trainer directory is not under git.
	TrainerRevision *vcs.Revision `json:"trainer_revision,omitempty"`
}

// FailedResults returns the failed experiments in run order.
func (s Summary) FailedResults() []RunResult {
	var failed []RunResult
	for _, result := range s.Results {
		if !result.Success {
			failed = append(failed, result)
		}
	}
	return failed
}
