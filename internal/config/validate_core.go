package config

import (
	"fmt"
	"os"
	"strings"

	"m3run/internal/spec"
)

// Validate checks a normalized config for correctness and referenced paths.
func Validate(cfg *spec.Config, baseDir string) error {
	collector := &issueCollector{}

	if cfg.Version == 0 {
		collector.add("version", "is required")
	} else if cfg.Version != 1 {
		collector.add("version", fmt.Sprintf("unsupported version %d", cfg.Version))
	}

	if baseDir == "" {
		baseDir = "."
	}

	validateTrainer(cfg.Trainer, baseDir, collector.add)
	if strings.TrimSpace(cfg.Output.SummaryPath) == "" {
		collector.add("output.summary_path", "is required")
	}
	validateLearningRates(cfg.LearningRates, collector.add)
	known := func(model string) bool {
		_, ok := cfg.LearningRates.Models[model]
		return ok
	}
	if cfg.FocusModel == "" {
		collector.add("focus_model", "is required")
	} else if cfg.LearningRates.Strict && !known(cfg.FocusModel) {
		collector.add("focus_model", fmt.Sprintf("unknown model %q", cfg.FocusModel))
	}
	validateGrid(cfg.Grid, cfg.LearningRates.Strict, known, collector.add)

	return collector.result()
}

// validateTrainer checks the trainer launch settings.
func validateTrainer(trainer spec.TrainerConfig, baseDir string, add issueAdder) {
	if len(trainer.Command) == 0 || strings.TrimSpace(trainer.Command[0]) == "" {
		add("trainer.command", "must name an executable")
	}
	if trainer.TimeoutSeconds < 0 {
		add("trainer.timeout_seconds", "must be >= 0")
	}
	workDir := ResolvePath(baseDir, trainer.WorkDir)
	info, err := os.Stat(workDir)
	if err != nil {
		add("trainer.workdir", fmt.Sprintf("path not found at %q", trainer.WorkDir))
	} else if !info.IsDir() {
		add("trainer.workdir", fmt.Sprintf("path %q is not a directory", trainer.WorkDir))
	}
	for key := range trainer.Env {
		if strings.TrimSpace(key) == "" || strings.Contains(key, "=") {
			add("trainer.env", fmt.Sprintf("invalid variable name %q", key))
		}
	}
}

// validateLearningRates checks the default and per-model rates.
func validateLearningRates(rates spec.LearningRateTable, add issueAdder) {
	if rates.Default <= 0 {
		add("learning_rates.default", "must be > 0")
	}
	for model, rate := range rates.Models {
		if strings.TrimSpace(model) == "" {
			add("learning_rates.models", "model name is required")
			continue
		}
		if rate <= 0 {
			add(fmt.Sprintf("learning_rates.models.%s", model), "must be > 0")
		}
	}
}
