// Package feature maps symbolic plugin names, optionally constrained by
// package name, package version and platform, to registered values.
//
// Each consumer owns its own Registry; registries never see each other's
// entries. Lookups first give a Requirer the chance to load the package that
// provides a name, which usually registers it as a side effect.
package feature

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/spachava753/sprout/internal/models"
)

// Descriptor identifies a registered feature. Only Name is required; empty
// optional fields match any selector.
type Descriptor struct {
	Name       string `json:"name"`
	PkgName    string `json:"pkg_name,omitempty"`
	PkgVersion string `json:"pkg_version,omitempty"`
	Platform   string `json:"platform,omitempty"`
}

func (d Descriptor) String() string {
	s := d.Name
	if d.PkgName != "" {
		s += " (" + d.PkgName
		if d.PkgVersion != "" {
			s += " " + d.PkgVersion
		}
		s += ")"
	}
	if d.Platform != "" {
		s += " [" + d.Platform + "]"
	}
	return s
}

// Requirer loads the package providing name. It is called once per candidate
// name before the registry is searched and may call Register on the same
// registry.
type Requirer interface {
	Require(ctx context.Context, name string, sel Selector) error
}

// RequirerFunc adapts a function to a Requirer.
type RequirerFunc func(ctx context.Context, name string, sel Selector) error

func (f RequirerFunc) Require(ctx context.Context, name string, sel Selector) error {
	return f(ctx, name, sel)
}

// Entry is a registered value with its descriptor.
type Entry[T any] struct {
	Descriptor
	Value T
}

// Registry is an ordered collection of registered features of one kind.
type Registry[T any] struct {
	kind     string
	requirer Requirer

	mu      sync.Mutex
	entries []Entry[T]
}

// Option configures a Registry.
type Option func(*options)

type options struct {
	requirer Requirer
}

// WithRequirer sets the hook used to load packages before lookups.
func WithRequirer(r Requirer) Option {
	return func(o *options) { o.requirer = r }
}

// New creates an empty registry. kind names the registered values in errors,
// e.g. "executable".
func New[T any](kind string, opts ...Option) *Registry[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Registry[T]{kind: kind, requirer: o.requirer}
}

// SetRequirer replaces the package loading hook.
func (r *Registry[T]) SetRequirer(req Requirer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requirer = req
}

// Register appends an entry. Earlier registrations with the same name are
// kept and win lookups.
func (r *Registry[T]) Register(d Descriptor, v T) error {
	if d.Name == "" {
		return models.Usagef("%s registration requires a name", r.kindName())
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry[T]{Descriptor: d, Value: v})
	return nil
}

// Load returns the first registered value matching any of names, tried in
// order.
func (r *Registry[T]) Load(ctx context.Context, names ...string) (T, error) {
	return r.LoadMatching(ctx, Selector{}, names...)
}

// LoadMatching is Load with a selection context: entries must also be
// compatible with sel.
func (r *Registry[T]) LoadMatching(ctx context.Context, sel Selector, names ...string) (T, error) {
	var zero T
	if len(names) == 0 {
		return zero, models.Usagef("%s load requires at least one name", r.kindName())
	}

	r.mu.Lock()
	req := r.requirer
	r.mu.Unlock()

	var reqErrs []error
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		if req != nil {
			// Not holding the lock: the requirer may register.
			if err := req.Require(ctx, name, sel); err != nil {
				slog.Debug("requiring package failed", "kind", r.kindName(), "name", name, "error", err)
				reqErrs = append(reqErrs, fmt.Errorf("requiring %s: %w", name, err))
			}
		}

		if e, ok := r.find(name, sel); ok {
			slog.Debug("resolved feature", "kind", r.kindName(), "name", name, "entry", e.Descriptor.String())
			return e.Value, nil
		}
	}

	return zero, &models.LoadError{
		Kind:  r.kindName(),
		Names: append([]string(nil), names...),
		Err:   errors.Join(reqErrs...),
	}
}

func (r *Registry[T]) find(name string, sel Selector) (Entry[T], bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.Name == name && sel.Matches(e.Descriptor) {
			return e, true
		}
	}
	return Entry[T]{}, false
}

// Clear removes every entry from this registry.
func (r *Registry[T]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
}

// Len returns the number of registered entries.
func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Entries returns a copy of the entries in registration order.
func (r *Registry[T]) Entries() []Entry[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry[T](nil), r.entries...)
}

func (r *Registry[T]) kindName() string {
	if r.kind == "" {
		return "feature"
	}
	return r.kind
}
