// Package executable resolves tool executables by name, package, version and
// platform.
package executable

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"sync"

	"github.com/spachava753/sprout/internal/feature"
)

// Executable is a registered executable file.
type Executable struct {
	feature.Descriptor
	Path string
}

// Registry is the executable consumer of feature.Registry. It implements
// tool.ExecutableLoader.
type Registry struct {
	platform string
	features *feature.Registry[Executable]
}

// Option configures a Registry.
type Option func(*Registry)

// WithPlatform overrides the platform executables are selected for.
func WithPlatform(platform string) Option {
	return func(r *Registry) { r.platform = platform }
}

// WithRequirer sets the hook that loads packages providing executables.
func WithRequirer(req feature.Requirer) Option {
	return func(r *Registry) { r.features.SetRequirer(req) }
}

// NewRegistry creates an empty executable registry for runtime.GOOS.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		platform: runtime.GOOS,
		features: feature.New[Executable]("executable"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetRequirer replaces the package loading hook.
func (r *Registry) SetRequirer(req feature.Requirer) { r.features.SetRequirer(req) }

// Register adds an executable at path.
func (r *Registry) Register(d feature.Descriptor, path string) error {
	if path == "" {
		return fmt.Errorf("registering %s: empty path", d)
	}
	return r.features.Register(d, Executable{Descriptor: d, Path: path})
}

// Load resolves the first of names compatible with sel. An empty sel.Platform
// is filled with the registry's platform.
func (r *Registry) Load(ctx context.Context, sel feature.Selector, names ...string) (Executable, error) {
	if sel.Platform == "" {
		sel.Platform = r.platform
	}
	return r.features.LoadMatching(ctx, sel, names...)
}

// LoadExecutable returns the path of the executable called name shipped by
// pkgName at a version satisfying pkgVersion. Empty arguments are
// unconstrained.
func (r *Registry) LoadExecutable(ctx context.Context, name, pkgName, pkgVersion string) (string, error) {
	exe, err := r.Load(ctx, feature.Selector{PkgName: pkgName, PkgVersion: pkgVersion}, name)
	if err != nil {
		return "", err
	}
	slog.Debug("loaded executable", "executable", exe.Descriptor.String(), "path", exe.Path)
	return exe.Path, nil
}

// Entries lists the registered executables.
func (r *Registry) Entries() []Executable {
	entries := r.features.Entries()
	out := make([]Executable, len(entries))
	for i, e := range entries {
		out[i] = e.Value
	}
	return out
}

// Clear removes every registered executable.
func (r *Registry) Clear() { r.features.Clear() }

// PathRequirer registers executables found on $PATH. They carry no package
// information and therefore satisfy any selector.
type PathRequirer struct {
	lookPath func(string) (string, error)

	mu   sync.Mutex
	done map[string]bool
	reg  *Registry
}

// NewPathRequirer creates a requirer registering into reg.
func NewPathRequirer(reg *Registry) *PathRequirer {
	return &PathRequirer{lookPath: exec.LookPath, done: make(map[string]bool), reg: reg}
}

// Require registers name if it is on $PATH.
func (p *PathRequirer) Require(_ context.Context, name string, _ feature.Selector) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done[name] {
		return nil
	}

	path, err := p.lookPath(name)
	if err != nil {
		return fmt.Errorf("looking up %s on PATH: %w", name, err)
	}
	slog.Debug("registering executable from PATH", "name", name, "path", path)
	if err := p.reg.Register(feature.Descriptor{Name: name}, path); err != nil {
		return err
	}
	p.done[name] = true
	return nil
}

// Chain calls the requirers in order until one succeeds. When all of them
// fail it returns their joined errors.
func Chain(reqs ...feature.Requirer) feature.Requirer {
	return feature.RequirerFunc(func(ctx context.Context, name string, sel feature.Selector) error {
		var errs []error
		for _, req := range reqs {
			err := req.Require(ctx, name, sel)
			if err == nil {
				return nil
			}
			errs = append(errs, err)
		}
		return errors.Join(errs...)
	})
}
