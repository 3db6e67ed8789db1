package runner

import (
	"fmt"

	"m3run/internal/experiment"
)

// PlannedExperiment couples a spec with its resolved learning rate.
type PlannedExperiment struct {
	Spec         experiment.Spec
	LearningRate float64
}

// PlanRequest selects the experiments for a batch.
type PlanRequest struct {
	Mode experiment.Mode
	// Single is used by ModeSingle.
	Single experiment.Spec
	// LearningRate overrides the table in ModeSingle only.
	LearningRate *float64
	Grid         experiment.Grid
	FocusModel   string
	Rates        experiment.LearningRates
}

// Plan expands a request into the ordered experiment list.
func Plan(req PlanRequest) ([]PlannedExperiment, error) {
	var specs []experiment.Spec
	var override *float64
	switch req.Mode {
	case experiment.ModeSingle, "":
		if err := req.Single.Validate(); err != nil {
			return nil, err
		}
		specs = []experiment.Spec{req.Single}
		override = req.LearningRate
	case experiment.ModeAll:
		specs = req.Grid.Expand()
	case experiment.ModeFocus:
		if req.FocusModel == "" {
			return nil, fmt.Errorf("focus model is required for mode %s", req.Mode)
		}
		specs = req.Grid.Focus(req.FocusModel)
	default:
		return nil, fmt.Errorf("unsupported mode %q", req.Mode)
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("no experiments selected for mode %s", req.Mode)
	}

	planned := make([]PlannedExperiment, 0, len(specs))
	for _, spec := range specs {
		if err := spec.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", spec.ID(), err)
		}
		rate, err := req.Rates.Resolve(spec.Model, override)
		if err != nil {
			return nil, err
		}
		planned = append(planned, PlannedExperiment{Spec: spec, LearningRate: rate})
	}
	return planned, nil
}
