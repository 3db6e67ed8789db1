package metrics

import (
	"context"

	"m3run/internal/experiment"
	"m3run/internal/runner"
)

// NoOpExporter is a metrics exporter that does nothing.
type NoOpExporter struct{}

// NewNoOpExporter creates a new no-op exporter for graceful degradation.
func NewNoOpExporter() *NoOpExporter {
	return &NoOpExporter{}
}

func (e *NoOpExporter) OnRunStart(string, experiment.Mode, []runner.PlannedExperiment) {}

func (e *NoOpExporter) OnExperimentStart(runner.ExperimentStart) {}

func (e *NoOpExporter) OnExperimentEnd(int, runner.RunResult) {}

func (e *NoOpExporter) OnExperimentAborted(int, runner.PlannedExperiment) {}

func (e *NoOpExporter) OnRunEnd(runner.Summary) {}

func (e *NoOpExporter) Close(ctx context.Context) error {
	return nil
}
