// Package catalog collects the tool definitions a build can run: the
// built-in definitions plus every tool.toml found under a tools directory.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/spachava753/sprout/internal/task"
	"github.com/spachava753/sprout/internal/tool"
)

// Catalog maps tool names to definitions.
type Catalog struct {
	tools   map[string]*tool.Definition
	builtin map[string]bool
}

// New returns a catalog holding the built-in tools.
func New(opts ...task.Option) *Catalog {
	c := &Catalog{
		tools:   make(map[string]*tool.Definition),
		builtin: make(map[string]bool),
	}
	for _, def := range []*tool.Definition{tool.NewMXMLC(opts...)} {
		c.tools[def.Name()] = def
		c.builtin[def.Name()] = true
	}
	return c
}

// Add registers a definition. A loaded tool may replace a built-in one but
// not another loaded tool.
func (c *Catalog) Add(def *tool.Definition) error {
	name := def.Name()
	if _, ok := c.tools[name]; ok && !c.builtin[name] {
		return fmt.Errorf("tool %q defined twice", name)
	}
	if c.builtin[name] {
		slog.Debug("replacing built-in tool", "tool", name)
	}
	c.tools[name] = def
	delete(c.builtin, name)
	return nil
}

// Get returns the definition called name.
func (c *Catalog) Get(name string) (*tool.Definition, error) {
	def, ok := c.tools[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool %q (known: %v)", name, c.Names())
	}
	return def, nil
}

// Names returns the tool names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.tools))
	for name := range c.tools {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Loader loads tool directories into a catalog.
type Loader struct {
	opts       []task.Option
	taskLoader *task.Loader
}

// NewLoader creates a new catalog loader. The options apply to every
// definition it builds.
func NewLoader(opts ...task.Option) *Loader {
	return &Loader{
		opts:       opts,
		taskLoader: task.NewLoader(opts...),
	}
}

// LoadFromPath loads every tool directory under toolsPath on top of the
// built-in tools.
func (l *Loader) LoadFromPath(ctx context.Context, toolsPath string) (*Catalog, error) {
	absPath, err := filepath.Abs(toolsPath)
	if err != nil {
		return nil, fmt.Errorf("getting absolute path: %w", err)
	}

	entries, err := os.ReadDir(absPath)
	if err != nil {
		return nil, fmt.Errorf("reading tools directory: %w", err)
	}

	c := New(l.opts...)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		toolPath := filepath.Join(absPath, entry.Name())
		src, err := l.taskLoader.LoadTool(ctx, toolPath)
		if err != nil {
			return nil, fmt.Errorf("loading tool %s: %w", entry.Name(), err)
		}

		if err := l.taskLoader.ValidateTool(src); err != nil {
			return nil, fmt.Errorf("validating tool %s: %w", entry.Name(), err)
		}

		taskDef, err := l.taskLoader.Build(src)
		if err != nil {
			return nil, fmt.Errorf("declaring tool %s: %w", entry.Name(), err)
		}
		def := tool.Bind(taskDef, src.Config)

		if err := c.Add(def); err != nil {
			return nil, err
		}
		slog.Debug("loaded tool", "tool", def.Name(), "path", toolPath, "params", len(def.Schemas()))
	}

	return c, nil
}
