package monorepo

import (
	"sort"

	errs "github.com/matzehuels/monolink/pkg/errors"
	"github.com/matzehuels/monolink/pkg/manifest"
)

// Index maps package names to the internal packages of a monorepo. It is
// read-only after construction and safe for concurrent use.
type Index struct {
	byName map[string]*manifest.Package
	names  []string
}

// NewIndex indexes pkgs by name.
func NewIndex(pkgs []*manifest.Package) (*Index, error) {
	ix := &Index{byName: make(map[string]*manifest.Package, len(pkgs))}
	for _, p := range pkgs {
		if prev, ok := ix.byName[p.Name()]; ok {
			return nil, errs.New(errs.ErrCodeDuplicatePackage,
				"package %q is declared by both %s and %s", p.Name(), prev.Dir, p.Dir)
		}
		ix.byName[p.Name()] = p
		ix.names = append(ix.names, p.Name())
	}
	sort.Strings(ix.names)
	return ix, nil
}

// Package returns the package called name.
func (ix *Index) Package(name string) (*manifest.Package, bool) {
	p, ok := ix.byName[name]
	return p, ok
}

// Contains reports whether name is an internal package.
func (ix *Index) Contains(name string) bool {
	_, ok := ix.byName[name]
	return ok
}

// Names returns the sorted package names.
func (ix *Index) Names() []string {
	return append([]string(nil), ix.names...)
}

// Packages returns the packages sorted by name.
func (ix *Index) Packages() []*manifest.Package {
	pkgs := make([]*manifest.Package, len(ix.names))
	for i, name := range ix.names {
		pkgs[i] = ix.byName[name]
	}
	return pkgs
}

// Len returns the number of packages.
func (ix *Index) Len() int { return len(ix.names) }

// PackageByDir returns the package located in dir.
func (ix *Index) PackageByDir(dir string) (*manifest.Package, bool) {
	for _, p := range ix.byName {
		if p.Dir == dir {
			return p, true
		}
	}
	return nil, false
}
