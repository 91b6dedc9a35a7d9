package task

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spachava753/sprout/internal/models"
	"github.com/spachava753/sprout/internal/param"
)

// Instance holds the parameter values of one tool invocation. An Instance is
// owned by a single goroutine; it does no locking of its own.
type Instance struct {
	def     *Definition
	schemas []Schema
	values  []param.Value
	index   map[string]int
}

// Definition returns the definition the instance was created from.
func (i *Instance) Definition() *Definition { return i.def }

// Has reports whether name is a declared parameter or alias.
func (i *Instance) Has(name string) bool {
	_, ok := i.index[name]
	return ok
}

// Value returns the underlying value for a parameter name or alias.
func (i *Instance) Value(name string) (param.Value, error) {
	pos, ok := i.index[name]
	if !ok {
		return nil, models.Usagef("%s has no param %q", i.def.name, name)
	}
	return i.values[pos], nil
}

// Get returns the current value of a parameter in its native form.
func (i *Instance) Get(name string) (any, error) {
	v, err := i.Value(name)
	if err != nil {
		return nil, err
	}
	return v.Get(), nil
}

// Set replaces the value of a parameter. Assigning a scalar to a collection
// or a sequence to a scalar is a usage error.
func (i *Instance) Set(name string, value any) error {
	v, err := i.Value(name)
	if err != nil {
		return err
	}
	if err := v.Set(value); err != nil {
		return fmt.Errorf("setting %s: %w", name, err)
	}
	return nil
}

// Append adds items to a collection parameter.
func (i *Instance) Append(name string, items ...any) error {
	c, err := i.List(name)
	if err != nil {
		return err
	}
	if err := c.Append(items...); err != nil {
		return fmt.Errorf("appending to %s: %w", name, err)
	}
	return nil
}

// List returns the live collection behind a parameter, so appends through it
// are seen by every name bound to the parameter.
func (i *Instance) List(name string) (param.Collection, error) {
	v, err := i.Value(name)
	if err != nil {
		return nil, err
	}
	c, ok := v.(param.Collection)
	if !ok {
		return nil, models.Usagef("%s param %q holds a single value; use Set", v.TypeName(), name)
	}
	return c, nil
}

// Bool returns a boolean parameter, or false when name is not a declared
// boolean.
func (i *Instance) Bool(name string) bool {
	v, _ := i.Get(name)
	b, _ := v.(bool)
	return b
}

// String returns a text parameter (string, path, url, symbol, file), or ""
// when name is not declared or has another shape.
func (i *Instance) String(name string) string {
	v, _ := i.Get(name)
	s, _ := v.(string)
	return s
}

// Number returns a number parameter as a float64, or 0 when name is not a
// declared number. Get returns integers without loss of precision.
func (i *Instance) Number(name string) float64 {
	v, _ := i.Get(name)
	switch n := v.(type) {
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	case float64:
		return n
	}
	return 0
}

// Strings returns a copy of a collection parameter, or nil when name is not a
// declared collection.
func (i *Instance) Strings(name string) []string {
	v, _ := i.Get(name)
	s, _ := v.([]string)
	return s
}

// Apply sets parameters from a name/value map, as decoded from build.yaml.
// Names are applied in sorted order so errors are deterministic.
func (i *Instance) Apply(values map[string]any) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		if err := i.Set(name, values[name]); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks that every file referenced by a file or files parameter
// exists.
func (i *Instance) Validate() error {
	var errs []error
	for pos, v := range i.values {
		c, ok := v.(param.Checker)
		if !ok {
			continue
		}
		if err := c.Check(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", i.schemas[pos].Name, err))
		}
	}
	return errors.Join(errs...)
}
