package config

import (
	"fmt"
	"os"

	"github.com/spachava753/sprout/internal/models"
	"gopkg.in/yaml.v3"
)

// DefaultBuildConfig returns a BuildConfig with default values.
func DefaultBuildConfig() models.BuildConfig {
	return models.BuildConfig{
		OutputDir:   "builds",
		NConcurrent: 1,
		TimeoutSec:  600.0,
		ToolsDir:    "tools",
	}
}

// LoadBuildConfig loads and parses a build.yaml file.
func LoadBuildConfig(path string) (models.BuildConfig, error) {
	cfg := DefaultBuildConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading build config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing build config: %w", err)
	}

	// Validate index ref
	if cfg.Index != nil {
		hasPath := cfg.Index.Path != nil && *cfg.Index.Path != ""
		hasURL := cfg.Index.URL != nil && *cfg.Index.URL != ""
		if !hasPath && !hasURL {
			return cfg, fmt.Errorf("index: must specify either 'path' or 'url'")
		}
		if hasPath && hasURL {
			return cfg, fmt.Errorf("index: cannot specify both 'path' and 'url'")
		}
	}

	// Validate runs
	for i, run := range cfg.Runs {
		if run.Tool == "" {
			return cfg, fmt.Errorf("runs[%d]: 'tool' is required", i)
		}
	}

	// Apply defaults for missing values
	if cfg.OutputDir == "" {
		cfg.OutputDir = "builds"
	}
	if cfg.NConcurrent <= 0 {
		cfg.NConcurrent = 1
	}
	if cfg.TimeoutSec <= 0 {
		cfg.TimeoutSec = 600.0
	}
	if cfg.ToolsDir == "" {
		cfg.ToolsDir = "tools"
	}

	return cfg, nil
}
