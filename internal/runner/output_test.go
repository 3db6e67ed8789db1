package runner

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"m3run/internal/experiment"
)

// TestWriteSummaryFieldNames verifies the persisted document shape.
func TestWriteSummaryFieldNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "experiment_summary.json")
	stamp := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	summary := Summary{
		RunID:   "run-1",
		Mode:    experiment.ModeFocus,
		Planned: 1,
		Total:   1,
		Success: 1,
		Results: []RunResult{{
			Dataset:      experiment.DatasetEnglish,
			DomainNum:    3,
			Model:        "m3fend",
			Success:      true,
			Timestamp:    stamp,
			LearningRate: 0.0001,
		}},
		StartTime: stamp,
		EndTime:   stamp,
	}
	if err := WriteSummary(path, summary); err != nil {
		t.Fatalf("write summary: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("parse summary: %v", err)
	}
	for _, key := range []string{"total", "success", "failed", "results", "end_time", "run_id", "planned", "interrupted"} {
		if _, ok := doc[key]; !ok {
			t.Fatalf("missing key %q", key)
		}
	}
	result := doc["results"].([]any)[0].(map[string]any)
	for _, key := range []string{"dataset", "domain_num", "model", "success", "timestamp", "lr"} {
		if _, ok := result[key]; !ok {
			t.Fatalf("missing result key %q", key)
		}
	}
	if _, ok := result["error"]; ok {
		t.Fatalf("empty error should be omitted")
	}
	if result["timestamp"] != "2025-01-02T03:04:05Z" {
		t.Fatalf("unexpected timestamp: %v", result["timestamp"])
	}
	matches, _ := filepath.Glob(filepath.Join(filepath.Dir(path), ".*.tmp"))
	if len(matches) != 0 {
		t.Fatalf("temp files left behind: %v", matches)
	}
}

// TestOutputPathsLogPath verifies per-experiment log locations.
func TestOutputPathsLogPath(t *testing.T) {
	paths, err := NewOutputPaths("summary.json", "logs", "run-1")
	if err != nil {
		t.Fatalf("new output paths: %v", err)
	}
	spec := experiment.Spec{Dataset: experiment.DatasetChinese, DomainNum: 9, Model: "mose"}
	if got := paths.LogPath(spec); got != filepath.Join("logs", "run-1", "mose_ch_9.log") {
		t.Fatalf("unexpected log path: %s", got)
	}
	paths.LogsRoot = ""
	if paths.LogPath(spec) != "" {
		t.Fatalf("expected no log path when logging is disabled")
	}
	if _, err := NewOutputPaths("", "logs", "run-1"); err == nil {
		t.Fatalf("expected error for empty summary path")
	}
}
