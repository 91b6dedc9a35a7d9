package feature

import "strings"

// Selector is the selection context of a lookup. Empty fields are
// unconstrained.
type Selector struct {
	PkgName    string
	PkgVersion string // exact version or requirement list, e.g. ">= 1.0.pre"
	Platform   string
}

// Matches reports whether d is compatible with s. A field left empty on
// either side never blocks a match.
func (s Selector) Matches(d Descriptor) bool {
	if s.PkgName != "" && d.PkgName != "" && s.PkgName != d.PkgName {
		return false
	}
	if s.Platform != "" && d.Platform != "" && !strings.EqualFold(s.Platform, d.Platform) {
		return false
	}
	if s.PkgVersion != "" && d.PkgVersion != "" && !MatchVersion(s.PkgVersion, d.PkgVersion) {
		return false
	}
	return true
}
