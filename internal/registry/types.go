package registry

// Package is an installed tool package listed in an index.json file.
type Package struct {
	Name        string          `json:"name"`
	Version     string          `json:"version"`
	Platform    string          `json:"platform,omitempty"` // empty = any platform
	Description string          `json:"description,omitempty"`
	Path        string          `json:"path,omitempty"` // install root; relative to the index file
	Executables []ExecutableRef `json:"executables"`
}

// ExecutableRef names an executable shipped by a package. Path is relative
// to the package root unless absolute.
type ExecutableRef struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Provides reports whether the package ships an executable called name.
func (p *Package) Provides(name string) (ExecutableRef, bool) {
	for _, e := range p.Executables {
		if e.Name == name {
			return e, true
		}
	}
	return ExecutableRef{}, false
}
