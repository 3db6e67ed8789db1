package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"m3run/internal/metrics"
)

const testConfigBody = `version: 1
trainer:
  command: ["python", "main.py"]
  workdir: "."
  timeout_seconds: 90
output:
  summary_path: "out/summary.json"
  logs_dir: "logs"
grid:
  - dataset: ch
    domain_num: 3
    models: [m3fend, bert]
  - dataset: en
    domain_num: 3
    models: [m3fend]
`

// writeTestConfig writes body to <dir>/.m3run/config.yml.
func writeTestConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ".m3run", "config.yml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// disableMetrics keeps tests off the OTLP exporter.
func disableMetrics(t *testing.T) {
	t.Helper()
	orig := newMetricsExporter
	newMetricsExporter = func(context.Context) (metrics.Exporter, error) {
		return metrics.NewNoOpExporter(), nil
	}
	t.Cleanup(func() { newMetricsExporter = orig })
}
