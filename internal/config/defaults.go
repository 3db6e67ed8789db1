package config

import (
	"m3run/internal/experiment"
	"m3run/internal/spec"
)

// DefaultTrainerCommand launches the M3FEND trainer entrypoint.
var DefaultTrainerCommand = []string{"python", "main.py"}

// Default returns the paper reproduction config.
func Default() spec.Config {
	cfg := spec.Config{Version: 1}
	Normalize(&cfg)
	return cfg
}

// Grid converts the config grid into the experiment table.
func Grid(cfg spec.Config) experiment.Grid {
	grid := make(experiment.Grid, 0, len(cfg.Grid))
	for _, entry := range cfg.Grid {
		grid = append(grid, experiment.GridEntry{
			Dataset:   experiment.Dataset(entry.Dataset),
			DomainNum: entry.DomainNum,
			Models:    append([]string(nil), entry.Models...),
		})
	}
	return grid
}

// LearningRates builds the rate table. forceStrict upgrades a permissive table.
func LearningRates(cfg spec.Config, forceStrict bool) experiment.LearningRates {
	return experiment.NewLearningRates(cfg.LearningRates.Models, cfg.LearningRates.Default, cfg.LearningRates.Strict || forceStrict)
}

// FlushEachRun reports whether the summary is rewritten after each experiment.
func FlushEachRun(cfg spec.Config) bool {
	if cfg.Output.FlushEachRun == nil {
		return true
	}
	return *cfg.Output.FlushEachRun
}
