package config

import (
	"os"
	"path/filepath"
	"testing"
)

// writeConfigFile writes a config body under dir/.m3run/config.yml.
func writeConfigFile(t *testing.T, dir, body string) string {
	t.Helper()
	path := ConfigPath(dir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// issueFields lists the fields of a validation error.
func issueFields(t *testing.T, err error) []string {
	t.Helper()
	validationErr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
	}
	fields := make([]string, 0, len(validationErr.Issues))
	for _, issue := range validationErr.Issues {
		fields = append(fields, issue.Field)
	}
	return fields
}

// containsField reports whether fields includes target.
func containsField(fields []string, target string) bool {
	for _, field := range fields {
		if field == target {
			return true
		}
	}
	return false
}
