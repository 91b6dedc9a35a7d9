package models

import (
	"io/fs"
)

// ToolConfig represents the parsed tool.toml configuration.
type ToolConfig struct {
	Version     string         `toml:"version"`
	Name        string         `toml:"name"`
	Description string         `toml:"description,omitempty"`
	Executable  string         `toml:"executable"`
	PkgName     string         `toml:"pkg_name,omitempty"`
	PkgVersion  string         `toml:"pkg_version,omitempty"`
	GemName     string         `toml:"gem_name,omitempty"`    // Deprecated: use PkgName
	GemVersion  string         `toml:"gem_version,omitempty"` // Deprecated: use PkgVersion
	Metadata    map[string]any `toml:"metadata,omitempty"`
	Params      []ParamConfig  `toml:"param"`
}

// ParamConfig declares one parameter of a tool.
type ParamConfig struct {
	Name        string   `toml:"name"`
	Type        string   `toml:"type"`
	Default     any      `toml:"default,omitempty"`
	Aliases     []string `toml:"aliases,omitempty"`
	HiddenName  bool     `toml:"hidden_name"`
	HiddenValue bool     `toml:"hidden_value"`
	Description string   `toml:"description,omitempty"`
}

// ToolSource represents a tool definition loaded from disk.
type ToolSource struct {
	Name   string
	Path   string // filesystem path to the tool directory
	FS     fs.FS  // filesystem rooted at the tool directory
	Config ToolConfig
}
