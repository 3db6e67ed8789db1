package runner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"m3run/internal/experiment"
)

// OutputPaths describes filesystem locations for run outputs.
type OutputPaths struct {
	SummaryPath string
	LogsRoot    string
	RunID       string
}

// NewOutputPaths validates and constructs output paths metadata.
func NewOutputPaths(summaryPath, logsRoot, runID string) (OutputPaths, error) {
	if strings.TrimSpace(summaryPath) == "" {
		return OutputPaths{}, fmt.Errorf("summary path is empty")
	}
	if strings.TrimSpace(runID) == "" {
		return OutputPaths{}, fmt.Errorf("run ID is empty")
	}
	return OutputPaths{
		SummaryPath: summaryPath,
		LogsRoot:    logsRoot,
		RunID:       runID,
	}, nil
}

// LogsDir returns the per-run log directory, or "" when logging is off.
func (o OutputPaths) LogsDir() string {
	if strings.TrimSpace(o.LogsRoot) == "" {
		return ""
	}
	return filepath.Join(o.LogsRoot, o.RunID)
}

// LogPath returns the log file for one experiment.
func (o OutputPaths) LogPath(spec experiment.Spec) string {
	dir := o.LogsDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, spec.ID()+".log")
}

// WriteSummary writes the summary as pretty JSON. The file is replaced
// atomically so readers never observe a partial document.
func WriteSummary(path string, summary Summary) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("summary path is required")
	}
	payload, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	payload = append(payload, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create summary dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp summary: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

// ReadSummary loads a summary document.
func ReadSummary(path string) (Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Summary{}, fmt.Errorf("read summary: %w", err)
	}
	var summary Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		return Summary{}, fmt.Errorf("parse summary %s: %w", filepath.Base(path), err)
	}
	return summary, nil
}
