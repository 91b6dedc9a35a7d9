package util

import (
	"strings"
)

// EscapeSpaces replaces every literal space with a backslash-escaped space so
// the value survives word splitting in a shell command line. No quoting is
// added and no other characters are touched.
func EscapeSpaces(s string) string {
	return strings.ReplaceAll(s, " ", `\ `)
}

// Dasherize converts a parameter name to its flag form, e.g.
// "source_path" becomes "source-path".
func Dasherize(name string) string {
	return strings.ReplaceAll(name, "_", "-")
}

// Flag returns the command line flag for a parameter name.
func Flag(name string) string {
	return "-" + Dasherize(name)
}
