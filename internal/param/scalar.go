package param

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spachava753/sprout/internal/models"
	"github.com/spachava753/sprout/internal/util"
)

// scalar is the shared storage of the singular variants.
type scalar[T comparable] struct {
	typ   string
	value T
	set   bool
	conv  func(any) (T, bool)
}

func (s *scalar[T]) TypeName() string { return s.typ }

func (s *scalar[T]) Get() any { return s.value }

// Value returns the typed current value.
func (s *scalar[T]) Value() T { return s.value }

func (s *scalar[T]) Set(v any) error {
	if v == nil {
		var zero T
		s.value, s.set = zero, false
		return nil
	}
	if isSequence(v) {
		return models.Usagef("%s param cannot be assigned a sequence (%T)", s.typ, v)
	}
	tv, ok := s.conv(v)
	if !ok {
		return models.Usagef("%s param cannot hold a value of type %T", s.typ, v)
	}
	s.value, s.set = tv, true
	return nil
}

func (s *scalar[T]) IsEmpty() bool {
	var zero T
	return !s.set || s.value == zero
}

// Boolean is emitted as a bare flag or as flag=true.
type Boolean struct{ scalar[bool] }

func NewBoolean() *Boolean {
	return &Boolean{scalar[bool]{typ: TypeBoolean, conv: toBool}}
}

func (b *Boolean) ShellValue() string { return strconv.FormatBool(b.value) }

// String escapes embedded spaces.
type String struct{ scalar[string] }

func NewString() *String {
	return &String{scalar[string]{typ: TypeString, conv: toString}}
}

func (s *String) ShellValue() string { return util.EscapeSpaces(s.value) }

// Number holds a decimal value as canonical text, so integers keep every
// digit.
type Number struct{ scalar[json.Number] }

func NewNumber() *Number {
	return &Number{scalar[json.Number]{typ: TypeNumber, conv: toNumber}}
}

// Get returns an int64 for whole numbers, a uint64 for whole numbers above
// math.MaxInt64, a float64 otherwise, and nil when unset.
func (n *Number) Get() any {
	if !n.set {
		return nil
	}
	if i, err := n.value.Int64(); err == nil {
		return i
	}
	if u, err := strconv.ParseUint(n.value.String(), 10, 64); err == nil {
		return u
	}
	f, _ := n.value.Float64()
	return f
}

func (n *Number) ShellValue() string { return n.value.String() }

// IsEmpty reports whether the number was never set. Zero is a valid value.
func (n *Number) IsEmpty() bool { return !n.set }

// Path is emitted unmodified.
type Path struct{ scalar[string] }

func NewPath() *Path {
	return &Path{scalar[string]{typ: TypePath, conv: toString}}
}

func (p *Path) ShellValue() string { return p.value }

// URL is emitted unmodified.
type URL struct{ scalar[string] }

func NewURL() *URL {
	return &URL{scalar[string]{typ: TypeURL, conv: toURL}}
}

func (u *URL) ShellValue() string { return u.value }

// Symbol is emitted as its name.
type Symbol struct{ scalar[string] }

func NewSymbol() *Symbol {
	return &Symbol{scalar[string]{typ: TypeSymbol, conv: toString}}
}

func (s *Symbol) ShellValue() string { return s.value }

// File is a path that must exist when the tool runs.
type File struct{ scalar[string] }

func NewFile() *File {
	return &File{scalar[string]{typ: TypeFile, conv: toString}}
}

func (f *File) ShellValue() string { return f.value }

// Check returns an error when the referenced file does not exist.
func (f *File) Check() error {
	if f.IsEmpty() {
		return nil
	}
	return checkExists(f.value)
}

func checkExists(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("file %s: %w", path, err)
	}
	return nil
}
