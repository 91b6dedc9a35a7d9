package config

import (
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"
	"github.com/spachava753/sprout/internal/models"
)

// DefaultToolConfig returns a ToolConfig with default values.
func DefaultToolConfig() models.ToolConfig {
	return models.ToolConfig{
		Version: "1.0",
	}
}

// LoadToolConfig loads and parses a tool.toml file from the given filesystem.
func LoadToolConfig(fsys fs.FS) (models.ToolConfig, error) {
	cfg := DefaultToolConfig()

	data, err := fs.ReadFile(fsys, "tool.toml")
	if err != nil {
		return cfg, fmt.Errorf("reading tool.toml: %w", err)
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("parsing tool.toml: %w", err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("parsing tool.toml: unknown keys %v", undecoded)
	}

	// Handle legacy 'gem_name' field if 'pkg_name' is not explicitly set
	if !md.IsDefined("pkg_name") && md.IsDefined("gem_name") {
		cfg.PkgName = cfg.GemName
	}

	// Handle legacy 'gem_version' field if 'pkg_version' is not explicitly set
	if !md.IsDefined("pkg_version") && md.IsDefined("gem_version") {
		cfg.PkgVersion = cfg.GemVersion
	}

	if cfg.Executable == "" {
		cfg.Executable = cfg.Name
	}

	return cfg, nil
}
