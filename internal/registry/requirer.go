package registry

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/spachava753/sprout/internal/feature"
)

// Registrar receives the executables an index provides.
type Registrar interface {
	Register(d feature.Descriptor, path string) error
}

// IndexRequirer implements feature.Requirer over a package index. Requiring a
// name registers the matching executable of every package that ships it,
// once, newest package version first. Registries keep the first registration,
// so lookups prefer the newest package compatible with their selector no
// matter which selector loaded the index entries.
type IndexRequirer struct {
	pkgs      []Package
	root      string
	registrar Registrar

	mu   sync.Mutex
	done map[string]bool
}

// NewIndexRequirer creates a requirer. Relative package paths resolve against
// root, usually the directory holding index.json.
func NewIndexRequirer(pkgs []Package, root string, registrar Registrar) *IndexRequirer {
	return &IndexRequirer{
		pkgs:      pkgs,
		root:      root,
		registrar: registrar,
		done:      make(map[string]bool),
	}
}

type candidate struct {
	pkg  *Package
	ref  ExecutableRef
	desc feature.Descriptor
}

// Require registers the executables called name. It returns an error when no
// package ships name or none of them is compatible with sel.
//
// The lock is held across registration so a concurrent Require for the same
// name returns only once the entries exist.
func (r *IndexRequirer) Require(ctx context.Context, name string, sel feature.Selector) error {
	var found []candidate
	var compatible int
	for i := range r.pkgs {
		p := &r.pkgs[i]
		ref, ok := p.Provides(name)
		if !ok {
			continue
		}
		d := feature.Descriptor{Name: name, PkgName: p.Name, PkgVersion: p.Version, Platform: p.Platform}
		if sel.Matches(d) {
			compatible++
		}
		found = append(found, candidate{pkg: p, ref: ref, desc: d})
	}
	if len(found) == 0 {
		return fmt.Errorf("no package in index provides %q", name)
	}

	slices.SortStableFunc(found, func(a, b candidate) int {
		return compareVersions(b.pkg.Version, a.pkg.Version)
	})

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range found {
		if err := ctx.Err(); err != nil {
			return err
		}

		key := c.desc.String() + "|" + c.ref.Path
		if r.done[key] {
			continue
		}

		path := r.resolve(c.pkg, c.ref)
		slog.Debug("registering executable from index", "executable", c.desc.String(), "path", path)
		if err := r.registrar.Register(c.desc, path); err != nil {
			return fmt.Errorf("registering %s: %w", c.desc, err)
		}
		r.done[key] = true
	}

	if compatible == 0 {
		return fmt.Errorf("no package in index provides %q compatible with %+v", name, sel)
	}
	return nil
}

// compareVersions orders package versions. Unparseable versions sort below
// every parseable one.
func compareVersions(a, b string) int {
	va, errA := feature.ParseVersion(a)
	vb, errB := feature.ParseVersion(b)
	switch {
	case errA != nil && errB != nil:
		return cmp.Compare(a, b)
	case errA != nil:
		return -1
	case errB != nil:
		return 1
	}
	return va.Compare(vb)
}

func (r *IndexRequirer) resolve(p *Package, ref ExecutableRef) string {
	if filepath.IsAbs(ref.Path) {
		return ref.Path
	}
	base := p.Path
	if base == "" {
		base = strings.Join([]string{p.Name, p.Version}, "-")
	}
	if !filepath.IsAbs(base) {
		base = filepath.Join(r.root, base)
	}
	return filepath.Join(base, ref.Path)
}
