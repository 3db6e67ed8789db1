package config

import (
	"fmt"
	"os"
	"path/filepath"

	"m3run/internal/spec"
)

const scaffoldHeader = `# m3run experiment grid.
# Learning rates follow the M3FEND README.
`

// Scaffold writes the paper reproduction config to path.
func Scaffold(path string, workDir string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists at %q", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat config: %w", err)
	}
	cfg := Default()
	if workDir != "" {
		cfg.Trainer.WorkDir = workDir
	}
	return writeConfig(path, cfg)
}

// writeConfig renders cfg with the scaffold header.
func writeConfig(path string, cfg spec.Config) error {
	data, err := spec.MarshalConfig(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	payload := append([]byte(scaffoldHeader), data...)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
