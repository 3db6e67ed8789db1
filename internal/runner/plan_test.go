package runner

import (
	"errors"
	"testing"

	"m3run/internal/experiment"
)

// TestPlanSingleUsesOverride verifies a CLI learning rate wins in single mode.
func TestPlanSingleUsesOverride(t *testing.T) {
	override := 0.005
	planned, err := Plan(PlanRequest{
		Mode:         experiment.ModeSingle,
		Single:       experiment.Spec{Dataset: experiment.DatasetChinese, DomainNum: 3, Model: "bert"},
		LearningRate: &override,
		Rates:        experiment.NewLearningRates(experiment.PaperLearningRates(), 0, false),
	})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(planned) != 1 || planned[0].LearningRate != 0.005 {
		t.Fatalf("unexpected plan: %+v", planned)
	}
}

// TestPlanAllIgnoresOverride verifies grid modes use the rate table.
func TestPlanAllIgnoresOverride(t *testing.T) {
	override := 0.005
	planned, err := Plan(PlanRequest{
		Mode:         experiment.ModeAll,
		Grid:         experiment.PaperGrid(),
		LearningRate: &override,
		Rates:        experiment.NewLearningRates(experiment.PaperLearningRates(), 0, false),
	})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(planned) != 44 {
		t.Fatalf("expected 44 experiments, got %d", len(planned))
	}
	for _, item := range planned {
		if item.LearningRate == 0.005 {
			t.Fatalf("override leaked into %s", item.Spec.ID())
		}
	}
	if planned[4].Spec.Model != "bert" || planned[4].LearningRate != 7e-5 {
		t.Fatalf("unexpected fifth experiment: %+v", planned[4])
	}
}

// TestPlanFocusRunsModelPerEntry verifies the focus mode selection.
func TestPlanFocusRunsModelPerEntry(t *testing.T) {
	planned, err := Plan(PlanRequest{
		Mode:       experiment.ModeFocus,
		Grid:       experiment.PaperGrid(),
		FocusModel: "m3fend",
		Rates:      experiment.NewLearningRates(experiment.PaperLearningRates(), 0, false),
	})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	want := []string{"m3fend_ch_3", "m3fend_ch_6", "m3fend_ch_9", "m3fend_en_3"}
	if len(planned) != len(want) {
		t.Fatalf("expected %d experiments, got %d", len(want), len(planned))
	}
	for i, id := range want {
		if planned[i].Spec.ID() != id {
			t.Fatalf("experiment %d: expected %s, got %s", i, id, planned[i].Spec.ID())
		}
	}
}

// TestPlanStrictRejectsUnknownModel verifies strict tables refuse unknown models.
func TestPlanStrictRejectsUnknownModel(t *testing.T) {
	_, err := Plan(PlanRequest{
		Mode:   experiment.ModeSingle,
		Single: experiment.Spec{Dataset: experiment.DatasetEnglish, DomainNum: 3, Model: "gpt"},
		Rates:  experiment.NewLearningRates(experiment.PaperLearningRates(), 0, true),
	})
	if !errors.Is(err, experiment.ErrUnknownModel) {
		t.Fatalf("expected ErrUnknownModel, got %v", err)
	}
}

// TestPlanRejectsInvalidSingle verifies single specs are validated.
func TestPlanRejectsInvalidSingle(t *testing.T) {
	_, err := Plan(PlanRequest{
		Mode:   experiment.ModeSingle,
		Single: experiment.Spec{Dataset: "fr", DomainNum: 3, Model: "m3fend"},
		Rates:  experiment.NewLearningRates(nil, 0, false),
	})
	if err == nil {
		t.Fatalf("expected invalid dataset error")
	}
}
