package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"m3run/internal/config"
	"m3run/internal/spec"
)

// resolveConfigPath normalizes a config path or finds it from CWD.
func resolveConfigPath(configPath string) (string, error) {
	if strings.TrimSpace(configPath) == "" {
		return config.FindConfigPath("")
	}
	abs, err := filepath.Abs(configPath)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return abs, nil
}

// loadedConfig is a validated config plus where it came from.
type loadedConfig struct {
	Config  spec.Config
	BaseDir string
	// Source is the config file path, or "" for built-in defaults.
	Source string
}

// loadRunConfig loads the config for run and plan. Without an explicit path
// and with no config file found, the built-in paper defaults apply.
func loadRunConfig(configPath string) (loadedConfig, error) {
	explicit := strings.TrimSpace(configPath) != ""
	resolved, err := resolveConfigPath(configPath)
	if err != nil {
		if !explicit && errors.Is(err, config.ErrConfigNotFound) {
			wd, wdErr := os.Getwd()
			if wdErr != nil {
				return loadedConfig{}, fmt.Errorf("get working directory: %w", wdErr)
			}
			cfg := config.Default()
			if err := config.Validate(&cfg, wd); err != nil {
				return loadedConfig{}, err
			}
			return loadedConfig{Config: cfg, BaseDir: wd}, nil
		}
		return loadedConfig{}, err
	}
	cfg, err := config.Load(resolved)
	if err != nil {
		return loadedConfig{}, err
	}
	return loadedConfig{Config: cfg, BaseDir: config.BaseDirFromConfigPath(resolved), Source: resolved}, nil
}

// describeSource renders where the config came from.
func (l loadedConfig) describeSource() string {
	if l.Source == "" {
		return "built-in paper defaults"
	}
	return l.Source
}
