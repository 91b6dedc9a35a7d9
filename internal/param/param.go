// Package param implements the typed parameter values a tool task carries and
// the rules for encoding them on a shell command line.
//
// Singular variants (boolean, string, number, path, url, symbol, file) hold at
// most one value and implement Scalar. Collection variants (strings, paths,
// urls, files, symbols) hold an ordered sequence and implement Collection; the
// owning task emits one flag occurrence per element.
package param

// Value is the storage of one declared parameter.
type Value interface {
	// TypeName returns the name the variant was registered under.
	TypeName() string

	// Get returns the current value in its native form: a scalar for
	// singular variants, a copy of the sequence for collections.
	Get() any

	// Set replaces the current value. A nil value resets it.
	Set(v any) error

	// IsEmpty reports whether the value is unset, false, zero or empty.
	IsEmpty() bool
}

// Scalar is a Value with a single shell fragment.
type Scalar interface {
	Value
	ShellValue() string
}

// Collection is a Value holding an ordered sequence of items.
type Collection interface {
	Value
	Append(items ...any) error
	Len() int
	Contains(item any) bool
	ItemShellValues() []string
}

// Checker is implemented by values that reference files which must exist.
type Checker interface {
	Check() error
}

// Variant type names.
const (
	TypeBoolean = "boolean"
	TypeString  = "string"
	TypeNumber  = "number"
	TypePath    = "path"
	TypeURL     = "url"
	TypeSymbol  = "symbol"
	TypeFile    = "file"
	TypeStrings = "strings"
	TypePaths   = "paths"
	TypeURLs    = "urls"
	TypeFiles   = "files"
	TypeSymbols = "symbols"
)
