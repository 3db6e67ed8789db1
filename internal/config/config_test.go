package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"m3run/internal/experiment"
)

// TestDefaultMatchesPaper verifies the built-in config reproduces the paper grid.
func TestDefaultMatchesPaper(t *testing.T) {
	cfg := Default()
	if err := Validate(&cfg, t.TempDir()); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	grid := Grid(cfg)
	if grid.Size() != 44 {
		t.Fatalf("expected 44 experiments, got %d", grid.Size())
	}
	rates := LearningRates(cfg, false)
	rate, err := rates.Resolve(experiment.ModelBERT, nil)
	if err != nil || rate != 7e-5 {
		t.Fatalf("expected bert rate 7e-5, got %v err=%v", rate, err)
	}
	if cfg.FocusModel != experiment.ModelM3FEND {
		t.Fatalf("unexpected focus model %q", cfg.FocusModel)
	}
	if !FlushEachRun(cfg) {
		t.Fatalf("expected flush_each_run default true")
	}
	if cfg.Trainer.Command[0] != "python" || cfg.Trainer.Command[1] != "main.py" {
		t.Fatalf("unexpected trainer command %v", cfg.Trainer.Command)
	}
}

// TestLoadAppliesDefaults verifies a minimal file inherits the paper tables.
func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfigFile(t, dir, "version: 1\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Grid) != 4 {
		t.Fatalf("expected paper grid, got %d entries", len(cfg.Grid))
	}
	if cfg.Output.SummaryPath != DefaultSummaryPath {
		t.Fatalf("unexpected summary path %q", cfg.Output.SummaryPath)
	}
}

// TestLoadCustomGrid verifies grid entries are normalized.
func TestLoadCustomGrid(t *testing.T) {
	dir := t.TempDir()
	path := writeConfigFile(t, dir, `version: 1
grid:
  - dataset: " EN "
    domain_num: 3
    models: [" m3fend ", bert]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	specs := Grid(cfg).Expand()
	if len(specs) != 2 {
		t.Fatalf("expected 2 specs, got %d", len(specs))
	}
	if specs[0].Dataset != experiment.DatasetEnglish || specs[0].Model != "m3fend" {
		t.Fatalf("unexpected first spec %+v", specs[0])
	}
}

// TestValidateReportsIssues verifies field-level validation issues.
func TestValidateReportsIssues(t *testing.T) {
	dir := t.TempDir()
	path := writeConfigFile(t, dir, `version: 2
trainer:
  command: [""]
  workdir: missing-dir
  timeout_seconds: -1
learning_rates:
  default: -1
  strict: true
  models:
    bert: 0
grid:
  - dataset: fr
    domain_num: 0
    models: [bert, bert, gpt]
`)
	_, err := Load(path)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	fields := issueFields(t, err)
	for _, want := range []string{
		"version",
		"trainer.command",
		"trainer.workdir",
		"trainer.timeout_seconds",
		"learning_rates.default",
		"learning_rates.models.bert",
		"focus_model",
		"grid[0].dataset",
		"grid[0].domain_num",
		"grid[0].models[1]",
		"grid[0].models[2]",
	} {
		if !containsField(fields, want) {
			t.Fatalf("expected issue for %s, got %v", want, fields)
		}
	}
}

// TestValidatePermissiveAllowsUnknownModels verifies non-strict grids accept any name.
func TestValidatePermissiveAllowsUnknownModels(t *testing.T) {
	dir := t.TempDir()
	path := writeConfigFile(t, dir, `version: 1
grid:
  - dataset: ch
    domain_num: 3
    models: [my-new-model]
`)
	if _, err := Load(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestFindConfigPath verifies upward discovery and the not-found sentinel.
func TestFindConfigPath(t *testing.T) {
	root := t.TempDir()
	path := writeConfigFile(t, root, "version: 1\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	found, err := FindConfigPath(nested)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found != path {
		t.Fatalf("expected %s, got %s", path, found)
	}
	if BaseDirFromConfigPath(found) != root {
		t.Fatalf("unexpected base dir %s", BaseDirFromConfigPath(found))
	}

	empty := t.TempDir()
	if _, err := FindConfigPath(empty); !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound, got %v", err)
	}
}

// TestScaffoldWritesLoadableConfig verifies init output passes validation.
func TestScaffoldWritesLoadableConfig(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "M3FEND-main"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := ConfigPath(root)
	if err := Scaffold(path, "M3FEND-main"); err != nil {
		t.Fatalf("scaffold: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load scaffold: %v", err)
	}
	if cfg.Trainer.WorkDir != "M3FEND-main" {
		t.Fatalf("unexpected workdir %q", cfg.Trainer.WorkDir)
	}
	if Grid(cfg).Size() != 44 {
		t.Fatalf("scaffold lost grid entries")
	}
	if err := Scaffold(path, ""); err == nil {
		t.Fatalf("expected error when config exists")
	}
}
