package manifest

import (
	"os"
	"path"
	"path/filepath"

	errs "github.com/matzehuels/monolink/pkg/errors"
	"github.com/matzehuels/monolink/pkg/jsonfile"
)

// Package is a manifest located in the monorepo.
type Package struct {
	// Dir is the package directory relative to the monorepo root, using
	// forward slashes.
	Dir      string
	Manifest *Manifest
}

// Name returns the package name declared by its manifest.
func (p *Package) Name() string { return p.Manifest.Name }

// Version returns the package version declared by its manifest.
func (p *Package) Version() string { return p.Manifest.Version }

// ManifestPath returns the manifest path relative to the monorepo root.
func (p *Package) ManifestPath() string { return path.Join(p.Dir, Filename) }

// PackPath returns the `npm pack` archive path relative to the monorepo root.
func (p *Package) PackPath() string { return path.Join(p.Dir, p.Manifest.PackBasename()) }

// WithManifest returns a copy of the package using m.
func (p *Package) WithManifest(m *Manifest) *Package {
	return &Package{Dir: p.Dir, Manifest: m}
}

// Load reads the manifest of the package in dir, which is relative to root.
func Load(root, dir string) (*Package, error) {
	dir = filepath.ToSlash(filepath.Clean(dir))
	file := filepath.Join(root, filepath.FromSlash(dir), Filename)

	data, err := os.ReadFile(file)
	if err != nil {
		code := errs.ErrCodeIO
		if os.IsNotExist(err) {
			code = errs.ErrCodeFileNotFound
		}
		return nil, errs.Wrap(code, err, "read %s", path.Join(dir, Filename))
	}

	m, err := Parse(data)
	if err != nil {
		code := errs.GetCode(err)
		if code == "" {
			code = errs.ErrCodeInvalidManifest
		}
		return nil, errs.Wrap(code, err, "%s", path.Join(dir, Filename))
	}
	return &Package{Dir: dir, Manifest: m}, nil
}

// Save writes the package manifest through store.
func (p *Package) Save(store jsonfile.Store, root string) error {
	return store.Write(filepath.Join(root, filepath.FromSlash(p.ManifestPath())), p.Manifest.Document())
}
