package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"m3run/internal/trainer"
)

// ErrInterrupted reports a batch stopped by the caller before finishing.
var ErrInterrupted = errors.New("run interrupted")

// Run executes the planned experiments strictly in order and returns the
// summary. Experiment failures are recorded, never returned. The error is
// reserved for invalid parameters and interruption; an interrupted run still
// returns the partial summary.
func Run(ctx context.Context, params RunParams) (Summary, error) {
	if params.Trainer == nil {
		return Summary{}, fmt.Errorf("trainer is required")
	}
	if len(params.Plan) == 0 {
		return Summary{}, fmt.Errorf("no experiments planned")
	}
	runID, err := ensureRunID(params.Deps.RunID)
	if err != nil {
		return Summary{}, err
	}
	now := params.Deps.Now
	if now == nil {
		now = time.Now
	}
	clock := &monotonicClock{now: func() time.Time { return now().UTC() }}
	observer := params.Observer
	if observer == nil {
		observer = Observers(nil)
	}
	paths := OutputPaths{SummaryPath: params.SummaryPath, LogsRoot: params.LogsDir, RunID: runID}

	summary := Summary{
		RunID:           runID,
		Mode:            params.Mode,
		GPU:             params.GPU,
		Epochs:          params.Epochs,
		Planned:         len(params.Plan),
		StartTime:       clock.Now(),
		TrainerRevision: params.Revision,
	}
	observer.OnRunStart(runID, params.Mode, params.Plan)
	logVerbose(params.Verbose, params.VerboseWriter, params.VerboseLogWriter, params.NoColor, styleDefault,
		fmt.Sprintf("Run %s mode=%s experiments=%d gpu=%s epochs=%d", runID, params.Mode, len(params.Plan), params.GPU, params.Epochs))

	results := make([]RunResult, 0, len(params.Plan))
	for index, planned := range params.Plan {
		if ctx.Err() != nil {
			summary.Interrupted = true
			break
		}
		result, err := runExperiment(ctx, params, paths, clock, index, planned, observer)
		if err != nil {
			logVerbose(params.Verbose, params.VerboseWriter, params.VerboseLogWriter, params.NoColor, styleError,
				fmt.Sprintf("Experiment %s interrupted: %v", planned.Spec.ID(), err))
			observer.OnExperimentAborted(index, planned)
			summary.Interrupted = true
			break
		}
		results = append(results, result)
		observer.OnExperimentEnd(index, result)
		if params.FlushEachRun && params.SummaryPath != "" {
			partial := summarize(summary, results)
			partial.EndTime = result.Timestamp
			if err := WriteSummary(params.SummaryPath, partial); err != nil {
				warnf(params.Warnings, "Warning: failed to flush summary: %v\n", err)
			}
		}
	}

	summary = summarize(summary, results)
	summary.EndTime = clock.Now()
	observer.OnRunEnd(summary)
	logVerbose(params.Verbose, params.VerboseWriter, params.VerboseLogWriter, params.NoColor, styleMetrics,
		fmt.Sprintf("Run %s total=%d success=%d failed=%d interrupted=%t", runID, summary.Total, summary.Success, summary.Failed, summary.Interrupted))
	if summary.Interrupted {
		return summary, fmt.Errorf("%w after %d/%d experiments", ErrInterrupted, summary.Total, summary.Planned)
	}
	return summary, nil
}

// RunAndWrite runs the batch and persists the final summary. An interrupted
// batch still has its partial summary written before the error is returned.
func RunAndWrite(ctx context.Context, params RunParams) (Summary, OutputPaths, error) {
	if params.SummaryPath == "" {
		return Summary{}, OutputPaths{}, fmt.Errorf("summary path is required")
	}
	summary, runErr := Run(ctx, params)
	if summary.RunID == "" {
		return summary, OutputPaths{}, runErr
	}
	paths, err := NewOutputPaths(params.SummaryPath, params.LogsDir, summary.RunID)
	if err != nil {
		return summary, OutputPaths{}, err
	}
	if err := WriteSummary(paths.SummaryPath, summary); err != nil {
		return summary, paths, fmt.Errorf("write summary: %w", err)
	}
	return summary, paths, runErr
}

// runExperiment launches one trainer run and records its result. The error
// is non-nil only when the caller cancelled the run.
func runExperiment(
	ctx context.Context,
	params RunParams,
	paths OutputPaths,
	clock *monotonicClock,
	index int,
	planned PlannedExperiment,
	observer RunObserver,
) (RunResult, error) {
	inv := trainer.Invocation{
		Spec:         planned.Spec,
		GPU:          params.GPU,
		Epochs:       params.Epochs,
		LearningRate: planned.LearningRate,
	}
	result := RunResult{
		Dataset:      planned.Spec.Dataset,
		DomainNum:    planned.Spec.DomainNum,
		Model:        planned.Spec.Model,
		LearningRate: planned.LearningRate,
	}

	logFile, logPath, err := openExperimentLog(paths, planned)
	if err != nil {
		warnf(params.Warnings, "Warning: %v\n", err)
	}
	if logFile != nil {
		defer logFile.Close()
		result.LogPath = logPath
	}

	start := ExperimentStart{
		Index:       index,
		Total:       len(params.Plan),
		Experiment:  planned,
		CommandLine: trainer.CommandLine(params.Command, inv),
		LogPath:     result.LogPath,
		StartedAt:   clock.Now(),
	}
	observer.OnExperimentStart(start)
	logVerbose(params.Verbose, params.VerboseWriter, params.VerboseLogWriter, params.NoColor, styleExperiment,
		fmt.Sprintf("Experiment %d/%d %s lr=%s", index+1, len(params.Plan), planned.Spec.ID(), trainer.FormatLearningRate(planned.LearningRate)))

	var logWriter io.Writer
	if logFile != nil {
		logWriter = logFile
		fmt.Fprintf(logFile, "$ %s\n", start.CommandLine)
	}
	stdout, stderr := trainerStreams(params.TrainerStdout, params.TrainerStderr, logWriter)
	outcome, trainErr := params.Trainer.Train(ctx, inv, trainer.Streams{Stdout: stdout, Stderr: stderr})
	if trainErr != nil && ctx.Err() != nil {
		return RunResult{}, trainErr
	}

	result.ExitCode = outcome.ExitCode
	result.DurationSeconds = outcome.Duration.Seconds()
	result.TimedOut = outcome.TimedOut
	result.Success = trainErr == nil && outcome.Success()
	if trainErr != nil {
		result.Error = trainErr.Error()
	}
	result.Timestamp = clock.Now()
	logVerbose(params.Verbose, params.VerboseWriter, params.VerboseLogWriter, params.NoColor, styleMetrics,
		fmt.Sprintf("Result %s success=%t exit_code=%d duration=%s timed_out=%t", planned.Spec.ID(), result.Success, result.ExitCode, outcome.Duration.Round(time.Millisecond), result.TimedOut))
	return result, nil
}

// openExperimentLog creates the per-experiment log file when logging is enabled.
func openExperimentLog(paths OutputPaths, planned PlannedExperiment) (*os.File, string, error) {
	logPath := paths.LogPath(planned.Spec)
	if logPath == "" {
		return nil, "", nil
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, "", fmt.Errorf("create logs dir: %w", err)
	}
	file, err := os.Create(logPath)
	if err != nil {
		return nil, "", fmt.Errorf("create experiment log: %w", err)
	}
	return file, logPath, nil
}

// ensureRunID uses the provided generator or falls back to NewRunID.
func ensureRunID(generator func() (string, error)) (string, error) {
	if generator != nil {
		return generator()
	}
	return NewRunID()
}

// warnf writes a warning when a writer is configured.
func warnf(w io.Writer, format string, args ...any) {
	if w == nil {
		return
	}
	fmt.Fprintf(w, format, args...)
}
