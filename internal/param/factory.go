package param

import (
	"slices"
	"strings"
	"sync"

	"github.com/spachava753/sprout/internal/models"
)

// Constructor returns a new, empty Value.
type Constructor func() Value

// Factory resolves a type name into a new Value.
type Factory struct {
	mu    sync.RWMutex
	ctors map[string]Constructor
}

// NewFactory creates a Factory that knows the built-in variants.
func NewFactory() *Factory {
	return &Factory{ctors: map[string]Constructor{
		TypeBoolean: func() Value { return NewBoolean() },
		TypeString:  func() Value { return NewString() },
		TypeNumber:  func() Value { return NewNumber() },
		TypePath:    func() Value { return NewPath() },
		TypeURL:     func() Value { return NewURL() },
		TypeSymbol:  func() Value { return NewSymbol() },
		TypeFile:    func() Value { return NewFile() },
		TypeStrings: func() Value { return NewStrings() },
		TypePaths:   func() Value { return NewPaths() },
		TypeURLs:    func() Value { return NewURLs() },
		TypeFiles:   func() Value { return NewFiles() },
		TypeSymbols: func() Value { return NewSymbols() },
	}}
}

// Register adds a variant under name. Registering an existing name replaces
// its constructor.
func (f *Factory) Register(name string, ctor Constructor) error {
	if strings.TrimSpace(name) == "" {
		return models.Usagef("param type name is required")
	}
	if ctor == nil {
		return models.Usagef("param type %q has a nil constructor", name)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ctors[name] = ctor
	return nil
}

// Create returns a new Value for typeName. An exact match wins; otherwise
// "<typeName>_param" is tried, so asking for "custom" finds a variant
// registered as "custom_param".
func (f *Factory) Create(typeName string) (Value, error) {
	ctor, err := f.Lookup(typeName)
	if err != nil {
		return nil, err
	}
	v := ctor()
	if v == nil {
		return nil, models.Usagef("param type %q constructor returned nil", typeName)
	}
	return v, nil
}

// Lookup resolves typeName to its constructor using the same rules as Create.
func (f *Factory) Lookup(typeName string) (Constructor, error) {
	f.mu.RLock()
	ctor, ok := f.ctors[typeName]
	if !ok {
		ctor, ok = f.ctors[typeName+"_param"]
	}
	f.mu.RUnlock()

	if !ok {
		return nil, models.Usagef("unknown param type %q (known types: %s)", typeName, strings.Join(f.Types(), ", "))
	}
	return ctor, nil
}

// Types returns the registered type names in sorted order.
func (f *Factory) Types() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	names := make([]string, 0, len(f.ctors))
	for name := range f.ctors {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Default is the process-wide factory used by task definitions unless one is
// supplied explicitly.
var Default = NewFactory()
