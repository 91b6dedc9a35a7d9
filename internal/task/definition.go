// Package task declares the typed parameters of an external command line tool
// and serializes a configured instance into shell arguments.
//
// A Definition is built once, at declaration time, with AddParam and
// AddParamAlias. Each call to Definition.New returns an Instance owning its own
// parameter values; instances never share mutable state.
package task

import (
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/spachava753/sprout/internal/models"
	"github.com/spachava753/sprout/internal/param"
)

// Schema describes one declared parameter.
type Schema struct {
	Name        string
	Type        string
	Aliases     []string
	Default     any // normalized through the param value; nil when unset
	HiddenName  bool
	HiddenValue bool
	Description string

	ctor param.Constructor
}

// HasDefault reports whether a default value was declared.
func (s Schema) HasDefault() bool { return s.Default != nil }

// ParamOption configures a parameter declaration.
type ParamOption func(*Schema)

// Default sets the value a new instance starts with. A parameter still
// holding its default is not serialized.
func Default(v any) ParamOption {
	return func(s *Schema) { s.Default = v }
}

// Alias declares additional names bound to the same value.
func Alias(names ...string) ParamOption {
	return func(s *Schema) { s.Aliases = append(s.Aliases, names...) }
}

// HiddenName serializes the value without a flag, as a positional argument.
func HiddenName() ParamOption {
	return func(s *Schema) { s.HiddenName = true }
}

// HiddenValue serializes a set boolean as the bare flag.
func HiddenValue() ParamOption {
	return func(s *Schema) { s.HiddenValue = true }
}

// Describe attaches help text.
func Describe(text string) ParamOption {
	return func(s *Schema) { s.Description = text }
}

// Definition is the type-level declaration of a tool's parameters.
type Definition struct {
	name    string
	factory *param.Factory

	mu      sync.RWMutex
	schemas []Schema
	index   map[string]int // name or alias -> position in schemas
}

// Option configures a Definition.
type Option func(*Definition)

// WithFactory resolves parameter types with f instead of param.Default.
func WithFactory(f *param.Factory) Option {
	return func(d *Definition) { d.factory = f }
}

// NewDefinition creates an empty definition.
func NewDefinition(name string, opts ...Option) *Definition {
	d := &Definition{
		name:    name,
		factory: param.Default,
		index:   make(map[string]int),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Name returns the definition name.
func (d *Definition) Name() string { return d.name }

// AddParam declares a parameter. The type is resolved once, here, so an
// unknown type fails the declaration and leaves the definition unchanged.
func (d *Definition) AddParam(name, typ string, opts ...ParamOption) error {
	s := Schema{Name: name, Type: typ}
	for _, opt := range opts {
		opt(&s)
	}
	if err := validName(name); err != nil {
		return err
	}

	ctor, err := d.factory.Lookup(typ)
	if err != nil {
		var usage *models.UsageError
		if errors.As(err, &usage) {
			return models.Usagef("declaring %s.%s: %s", d.name, name, usage.Message)
		}
		return err
	}
	probe := ctor()
	if probe == nil {
		return models.Usagef("declaring %s.%s: param type %q constructor returned nil", d.name, name, typ)
	}
	if s.Default != nil {
		if err := probe.Set(s.Default); err != nil {
			return models.Usagef("declaring %s.%s: invalid default: %v", d.name, name, err)
		}
		s.Default = probe.Get()
	}
	s.ctor = ctor

	d.mu.Lock()
	defer d.mu.Unlock()

	names := append([]string{name}, s.Aliases...)
	for i, n := range names {
		if i > 0 {
			if err := validName(n); err != nil {
				return err
			}
		}
		if _, exists := d.index[n]; exists {
			return models.Usagef("%s: param name %q is already declared", d.name, n)
		}
		if slices.Index(names[:i], n) >= 0 {
			return models.Usagef("%s: param name %q is repeated", d.name, n)
		}
	}

	s.Aliases = append([]string(nil), s.Aliases...)
	d.schemas = append(d.schemas, s)
	for _, n := range names {
		d.index[n] = len(d.schemas) - 1
	}
	return nil
}

// AddParamAlias binds alias to the value of an already declared parameter.
func (d *Definition) AddParamAlias(alias, target string) error {
	if err := validName(alias); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	pos, ok := d.index[target]
	if !ok {
		return models.Usagef("%s: cannot alias %q to undeclared param %q", d.name, alias, target)
	}
	if _, exists := d.index[alias]; exists {
		return models.Usagef("%s: param name %q is already declared", d.name, alias)
	}
	d.schemas[pos].Aliases = append(d.schemas[pos].Aliases, alias)
	d.index[alias] = pos
	return nil
}

// Extend returns a new definition that starts with all of d's declarations.
func (d *Definition) Extend(name string) *Definition {
	d.mu.RLock()
	defer d.mu.RUnlock()

	child := &Definition{
		name:    name,
		factory: d.factory,
		schemas: make([]Schema, len(d.schemas)),
		index:   make(map[string]int, len(d.index)),
	}
	for i, s := range d.schemas {
		s.Aliases = append([]string(nil), s.Aliases...)
		child.schemas[i] = s
	}
	for n, pos := range d.index {
		child.index[n] = pos
	}
	return child
}

// Schemas returns the declared parameters in declaration order.
func (d *Definition) Schemas() []Schema {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]Schema, len(d.schemas))
	copy(out, d.schemas)
	return out
}

// Lookup resolves a parameter name or alias to its schema.
func (d *Definition) Lookup(name string) (Schema, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	pos, ok := d.index[name]
	if !ok {
		return Schema{}, false
	}
	return d.schemas[pos], true
}

// New creates an instance with one fresh value per declared parameter, each
// holding its declared default.
func (d *Definition) New() *Instance {
	d.mu.RLock()
	defer d.mu.RUnlock()

	inst := &Instance{
		def:     d,
		schemas: make([]Schema, len(d.schemas)),
		values:  make([]param.Value, len(d.schemas)),
		index:   make(map[string]int, len(d.index)),
	}
	copy(inst.schemas, d.schemas)
	for n, pos := range d.index {
		inst.index[n] = pos
	}
	for i, s := range inst.schemas {
		v := s.ctor()
		if s.Default != nil {
			// The default was accepted by the same constructor at declaration.
			_ = v.Set(s.Default)
		}
		inst.values[i] = v
	}
	return inst
}

func validName(name string) error {
	if name == "" {
		return models.Usagef("param name is required")
	}
	if strings.ContainsAny(name, " \t\n=+") {
		return models.Usagef("param name %q contains whitespace, '=' or '+'", name)
	}
	return nil
}
