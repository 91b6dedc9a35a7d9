package task

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spachava753/sprout/internal/config"
	"github.com/spachava753/sprout/internal/models"
)

// Loader loads tool definitions from tool.toml directories.
type Loader struct {
	opts []Option
}

// NewLoader creates a new tool loader. The options are passed to every
// Definition it builds.
func NewLoader(opts ...Option) *Loader {
	return &Loader{opts: opts}
}

// LoadTool loads a single tool source from a filesystem path.
func (l *Loader) LoadTool(ctx context.Context, toolPath string) (*models.ToolSource, error) {
	absPath, err := filepath.Abs(toolPath)
	if err != nil {
		return nil, fmt.Errorf("getting absolute path: %w", err)
	}

	fsys := os.DirFS(absPath)

	cfg, err := config.LoadToolConfig(fsys)
	if err != nil {
		return nil, fmt.Errorf("loading tool config: %w", err)
	}

	// Name falls back to the directory name
	name := cfg.Name
	if name == "" {
		name = filepath.Base(absPath)
		cfg.Name = name
	}

	return &models.ToolSource{
		Name:   name,
		Path:   absPath,
		FS:     fsys,
		Config: cfg,
	}, nil
}

// ValidateTool validates a tool source's structure and configuration.
func (l *Loader) ValidateTool(src *models.ToolSource) error {
	if src.Config.Executable == "" {
		return fmt.Errorf("tool %s: executable is required", src.Name)
	}

	for i, p := range src.Config.Params {
		if p.Name == "" {
			return fmt.Errorf("tool %s: param[%d]: name is required", src.Name, i)
		}
		if p.Type == "" {
			return fmt.Errorf("tool %s: param %s: type is required", src.Name, p.Name)
		}
	}

	if src.FS != nil {
		if _, err := fs.Stat(src.FS, "tool.toml"); err != nil {
			return fmt.Errorf("tool.toml not found: %w", err)
		}
	}

	return nil
}

// Build declares a Definition from a tool source.
func (l *Loader) Build(src *models.ToolSource) (*Definition, error) {
	return FromConfig(src.Config, l.opts...)
}

// FromConfig declares a Definition from a parsed tool.toml, in the order the
// params appear in the file.
func FromConfig(cfg models.ToolConfig, opts ...Option) (*Definition, error) {
	d := NewDefinition(cfg.Name, opts...)
	for _, p := range cfg.Params {
		var popts []ParamOption
		if p.Default != nil {
			popts = append(popts, Default(p.Default))
		}
		if len(p.Aliases) > 0 {
			popts = append(popts, Alias(p.Aliases...))
		}
		if p.HiddenName {
			popts = append(popts, HiddenName())
		}
		if p.HiddenValue {
			popts = append(popts, HiddenValue())
		}
		if p.Description != "" {
			popts = append(popts, Describe(p.Description))
		}
		if err := d.AddParam(p.Name, p.Type, popts...); err != nil {
			return nil, fmt.Errorf("tool %s: %w", cfg.Name, err)
		}
	}
	return d, nil
}
