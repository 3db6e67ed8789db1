package spec

import (
	"strings"
	"testing"
)

// TestParseConfig verifies a full config decodes.
func TestParseConfig(t *testing.T) {
	data := []byte(`version: 1
trainer:
  command: ["python", "main.py"]
  workdir: M3FEND-main
  timeout_seconds: 30
output:
  summary_path: out/summary.json
  flush_each_run: false
learning_rates:
  default: 0.0001
  strict: true
  models:
    bert: 0.00007
focus_model: m3fend
grid:
  - dataset: ch
    domain_num: 3
    models: [m3fend, bert]
`)
	cfg, err := ParseConfig(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Trainer.WorkDir != "M3FEND-main" || cfg.Trainer.TimeoutSeconds != 30 {
		t.Fatalf("unexpected trainer config: %+v", cfg.Trainer)
	}
	if cfg.Output.FlushEachRun == nil || *cfg.Output.FlushEachRun {
		t.Fatalf("expected flush_each_run=false")
	}
	if !cfg.LearningRates.Strict || cfg.LearningRates.Models["bert"] != 7e-5 {
		t.Fatalf("unexpected learning rates: %+v", cfg.LearningRates)
	}
	if len(cfg.Grid) != 1 || len(cfg.Grid[0].Models) != 2 {
		t.Fatalf("unexpected grid: %+v", cfg.Grid)
	}
}

// TestParseConfigRejectsUnknownFields verifies strict decoding.
func TestParseConfigRejectsUnknownFields(t *testing.T) {
	_, err := ParseConfig([]byte("version: 1\nparallel: true\n"))
	if err == nil {
		t.Fatalf("expected unknown field error")
	}
	if !strings.Contains(err.Error(), "parallel") {
		t.Fatalf("expected field name in error, got %v", err)
	}
}

// TestParseConfigRejectsMultipleDocuments verifies single-document enforcement.
func TestParseConfigRejectsMultipleDocuments(t *testing.T) {
	docs := []string{
		"version: 1\n---\nversion: 1\n",
		"version: 1\n---\ntrainer:\n  command: [python, main.py]\n",
		"version: 1\n---\nextra\n",
	}
	for _, doc := range docs {
		_, err := ParseConfig([]byte(doc))
		if err == nil || !strings.Contains(err.Error(), "multiple YAML documents") {
			t.Fatalf("expected multiple document error for %q, got %v", doc, err)
		}
	}
}

// TestMarshalConfigRoundTrip verifies rendered YAML parses back.
func TestMarshalConfigRoundTrip(t *testing.T) {
	cfg := Config{
		Version: 1,
		Trainer: TrainerConfig{Command: []string{"python", "main.py"}},
		Grid:    []GridEntry{{Dataset: "en", DomainNum: 3, Models: []string{"m3fend"}}},
	}
	data, err := MarshalConfig(cfg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	parsed, err := ParseConfig(data)
	if err != nil {
		t.Fatalf("parse: %v\n%s", err, data)
	}
	if parsed.Grid[0].Dataset != "en" || parsed.Trainer.Command[1] != "main.py" {
		t.Fatalf("unexpected parsed config: %+v", parsed)
	}
}
