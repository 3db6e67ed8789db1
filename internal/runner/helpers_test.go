package runner

import (
	"context"
	"fmt"
	"testing"
	"time"

	"m3run/internal/experiment"
	"m3run/internal/trainer"
)

// fakeTrainer returns scripted outcomes keyed by experiment ID.
type fakeTrainer struct {
	exitCodes map[string]int
	errs      map[string]error
	calls     []trainer.Invocation
	onTrain   func(call int)
}

// Train records the invocation and returns the scripted outcome.
func (f *fakeTrainer) Train(ctx context.Context, inv trainer.Invocation, streams trainer.Streams) (trainer.Outcome, error) {
	f.calls = append(f.calls, inv)
	if streams.Stdout != nil {
		fmt.Fprintf(streams.Stdout, "training %s\n", inv.Spec.ID())
	}
	if f.onTrain != nil {
		f.onTrain(len(f.calls))
	}
	if ctx.Err() != nil {
		return trainer.Outcome{ExitCode: -1}, fmt.Errorf("trainer interrupted: %w", ctx.Err())
	}
	if err := f.errs[inv.Spec.ID()]; err != nil {
		return trainer.Outcome{ExitCode: -1}, err
	}
	return trainer.Outcome{ExitCode: f.exitCodes[inv.Spec.ID()], Duration: 2 * time.Second}, nil
}

// recordingObserver captures lifecycle events.
type recordingObserver struct {
	runID   string
	starts  []ExperimentStart
	ends    []RunResult
	aborted []int
	summary *Summary
}

func (r *recordingObserver) OnRunStart(runID string, _ experiment.Mode, _ []PlannedExperiment) {
	r.runID = runID
}

func (r *recordingObserver) OnExperimentStart(start ExperimentStart) {
	r.starts = append(r.starts, start)
}

func (r *recordingObserver) OnExperimentEnd(_ int, result RunResult) {
	r.ends = append(r.ends, result)
}

func (r *recordingObserver) OnExperimentAborted(index int, _ PlannedExperiment) {
	r.aborted = append(r.aborted, index)
}

func (r *recordingObserver) OnRunEnd(summary Summary) {
	r.summary = &summary
}

// planFor resolves paper learning rates for the given specs.
func planFor(t *testing.T, specs ...experiment.Spec) []PlannedExperiment {
	t.Helper()
	rates := experiment.NewLearningRates(experiment.PaperLearningRates(), 0, false)
	planned := make([]PlannedExperiment, 0, len(specs))
	for _, spec := range specs {
		rate, err := rates.Resolve(spec.Model, nil)
		if err != nil {
			t.Fatalf("resolve %s: %v", spec.Model, err)
		}
		planned = append(planned, PlannedExperiment{Spec: spec, LearningRate: rate})
	}
	return planned
}

// chineseSpecs returns three ch/3 experiments.
func chineseSpecs() []experiment.Spec {
	return []experiment.Spec{
		{Dataset: experiment.DatasetChinese, DomainNum: 3, Model: "m3fend"},
		{Dataset: experiment.DatasetChinese, DomainNum: 3, Model: "bert"},
		{Dataset: experiment.DatasetChinese, DomainNum: 3, Model: "textcnn"},
	}
}

// baseParams returns run params with deterministic dependencies.
func baseParams(t *testing.T, tr trainer.Trainer, plan []PlannedExperiment) RunParams {
	t.Helper()
	start := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	tick := 0
	return RunParams{
		Mode:    experiment.ModeAll,
		Plan:    plan,
		GPU:     "0",
		Epochs:  50,
		Command: []string{"python", "main.py"},
		Trainer: tr,
		Deps: RunDependencies{
			RunID: func() (string, error) { return "run-1", nil },
			Now: func() time.Time {
				tick++
				return start.Add(time.Duration(tick) * time.Second)
			},
		},
	}
}

// assertCounts checks the summary count invariants.
func assertCounts(t *testing.T, summary Summary, total, success, failed int) {
	t.Helper()
	if summary.Total != total || summary.Success != success || summary.Failed != failed {
		t.Fatalf("unexpected counts total=%d success=%d failed=%d", summary.Total, summary.Success, summary.Failed)
	}
	if summary.Success+summary.Failed != summary.Total || summary.Total != len(summary.Results) {
		t.Fatalf("count invariant broken: %+v", summary)
	}
}
