package param

import (
	"slices"

	"github.com/spachava753/sprout/internal/models"
	"github.com/spachava753/sprout/internal/util"
)

// list is the shared storage of the collection variants.
type list[T comparable] struct {
	typ   string
	items []T
	conv  func(any) (T, bool)
	shell func(T) string
}

func (l *list[T]) TypeName() string { return l.typ }

func (l *list[T]) Get() any { return l.Items() }

// Items returns a copy of the sequence.
func (l *list[T]) Items() []T { return slices.Clone(l.items) }

func (l *list[T]) Set(v any) error {
	if v == nil {
		l.items = nil
		return nil
	}
	raw, ok := toItems(v)
	if !ok {
		return models.Usagef("%s param holds a sequence; cannot assign %T (use Append)", l.typ, v)
	}
	items, err := l.convert(raw)
	if err != nil {
		return err
	}
	l.items = items
	return nil
}

// Append adds items to the end of the sequence. Either all items are added
// or none are.
func (l *list[T]) Append(items ...any) error {
	converted, err := l.convert(items)
	if err != nil {
		return err
	}
	l.items = append(l.items, converted...)
	return nil
}

func (l *list[T]) convert(raw []any) ([]T, error) {
	out := make([]T, 0, len(raw))
	for i, item := range raw {
		if isSequence(item) {
			return nil, models.Usagef("%s param item %d is a nested sequence (%T)", l.typ, i, item)
		}
		tv, ok := l.conv(item)
		if !ok {
			return nil, models.Usagef("%s param cannot hold an item of type %T", l.typ, item)
		}
		out = append(out, tv)
	}
	return out, nil
}

func (l *list[T]) IsEmpty() bool { return len(l.items) == 0 }

func (l *list[T]) Len() int { return len(l.items) }

func (l *list[T]) Contains(item any) bool {
	tv, ok := l.conv(item)
	if !ok {
		return false
	}
	return slices.Contains(l.items, tv)
}

func (l *list[T]) ItemShellValues() []string {
	out := make([]string, len(l.items))
	for i, item := range l.items {
		out[i] = l.shell(item)
	}
	return out
}

func identity(s string) string { return s }

// Strings is an ordered list of strings; each item has its spaces escaped.
type Strings struct{ list[string] }

func NewStrings() *Strings {
	return &Strings{list[string]{typ: TypeStrings, conv: toString, shell: util.EscapeSpaces}}
}

// Paths is an ordered list of paths.
type Paths struct{ list[string] }

func NewPaths() *Paths {
	return &Paths{list[string]{typ: TypePaths, conv: toString, shell: identity}}
}

// URLs is an ordered list of URLs.
type URLs struct{ list[string] }

func NewURLs() *URLs {
	return &URLs{list[string]{typ: TypeURLs, conv: toURL, shell: identity}}
}

// Symbols is an ordered list of symbol names.
type Symbols struct{ list[string] }

func NewSymbols() *Symbols {
	return &Symbols{list[string]{typ: TypeSymbols, conv: toString, shell: identity}}
}

// Files is an ordered list of paths that must exist when the tool runs.
type Files struct{ list[string] }

func NewFiles() *Files {
	return &Files{list[string]{typ: TypeFiles, conv: toString, shell: identity}}
}

// Check returns an error for the first referenced file that does not exist.
func (f *Files) Check() error {
	for _, path := range f.items {
		if err := checkExists(path); err != nil {
			return err
		}
	}
	return nil
}
