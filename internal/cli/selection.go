package cli

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"m3run/internal/config"
	"m3run/internal/experiment"
	"m3run/internal/runner"
)

// selectionFlags are the flags shared by run and plan.
type selectionFlags struct {
	configPath   *string
	mode         *string
	dataset      *string
	domainNum    *int
	model        *string
	lr           *string
	strictModels *bool
}

// registerSelectionFlags adds the experiment selection flags to flags.
func registerSelectionFlags(flags *flag.FlagSet) selectionFlags {
	return selectionFlags{
		configPath:   flags.String("config", "", "Path to config file (default: search for .m3run/config.yml, else paper defaults)"),
		mode:         flags.String("mode", string(experiment.ModeSingle), "Run mode: single|all|m3fend"),
		dataset:      flags.String("dataset", string(experiment.DatasetChinese), "Dataset for single mode: ch|en"),
		domainNum:    flags.Int("domain-num", 3, "Domain count for single mode"),
		model:        flags.String("model", experiment.ModelM3FEND, "Model for single mode"),
		lr:           flags.String("lr", "", "Learning rate override for single mode (default: recommended rate)"),
		strictModels: flags.Bool("strict-models", false, "Reject models without a configured learning rate"),
	}
}

// selection is the parsed, validated form of selectionFlags.
type selection struct {
	mode     experiment.Mode
	single   experiment.Spec
	override *float64
}

// parse validates the selection flags. Errors are usage errors.
func (s selectionFlags) parse() (selection, error) {
	mode, err := experiment.ParseMode(*s.mode)
	if err != nil {
		return selection{}, err
	}
	sel := selection{mode: mode}
	if mode != experiment.ModeSingle {
		if strings.TrimSpace(*s.lr) != "" {
			return selection{}, fmt.Errorf("--lr applies only to --mode single")
		}
		return sel, nil
	}
	dataset, err := experiment.ParseDataset(*s.dataset)
	if err != nil {
		return selection{}, err
	}
	sel.single = experiment.Spec{Dataset: dataset, DomainNum: *s.domainNum, Model: strings.TrimSpace(*s.model)}
	if err := sel.single.Validate(); err != nil {
		return selection{}, err
	}
	if raw := strings.TrimSpace(*s.lr); raw != "" {
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil || rate <= 0 {
			return selection{}, fmt.Errorf("invalid --lr %q (expected a positive number)", raw)
		}
		sel.override = &rate
	}
	return sel, nil
}

// buildPlan expands a selection against the loaded config.
func buildPlan(loaded loadedConfig, sel selection, strict bool) ([]runner.PlannedExperiment, error) {
	return runner.Plan(runner.PlanRequest{
		Mode:         sel.mode,
		Single:       sel.single,
		LearningRate: sel.override,
		Grid:         config.Grid(loaded.Config),
		FocusModel:   loaded.Config.FocusModel,
		Rates:        config.LearningRates(loaded.Config, strict),
	})
}
