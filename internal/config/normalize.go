package config

import (
	"strings"

	"m3run/internal/experiment"
	"m3run/internal/spec"
)

// Normalize fills defaults and canonicalizes identifiers in place.
func Normalize(cfg *spec.Config) {
	if len(cfg.Trainer.Command) == 0 {
		cfg.Trainer.Command = append([]string(nil), DefaultTrainerCommand...)
	}
	if strings.TrimSpace(cfg.Trainer.WorkDir) == "" {
		cfg.Trainer.WorkDir = "."
	}
	if strings.TrimSpace(cfg.Output.SummaryPath) == "" {
		cfg.Output.SummaryPath = DefaultSummaryPath
	}
	if cfg.Output.FlushEachRun == nil {
		flush := true
		cfg.Output.FlushEachRun = &flush
	}
	if cfg.LearningRates.Default == 0 {
		cfg.LearningRates.Default = experiment.DefaultLearningRate
	}
	if cfg.LearningRates.Models == nil {
		cfg.LearningRates.Models = experiment.PaperLearningRates()
	}
	cfg.FocusModel = strings.TrimSpace(cfg.FocusModel)
	if cfg.FocusModel == "" {
		cfg.FocusModel = experiment.ModelM3FEND
	}
	if len(cfg.Grid) == 0 {
		for _, entry := range experiment.PaperGrid() {
			cfg.Grid = append(cfg.Grid, spec.GridEntry{
				Dataset:   string(entry.Dataset),
				DomainNum: entry.DomainNum,
				Models:    entry.Models,
			})
		}
	}
	for i := range cfg.Grid {
		cfg.Grid[i].Dataset = strings.ToLower(strings.TrimSpace(cfg.Grid[i].Dataset))
		for j := range cfg.Grid[i].Models {
			cfg.Grid[i].Models[j] = strings.TrimSpace(cfg.Grid[i].Models[j])
		}
	}
}
