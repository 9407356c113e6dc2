package manifest

import (
	"encoding/json"
	"fmt"
	"strings"

	errs "github.com/matzehuels/monolink/pkg/errors"
	"github.com/matzehuels/monolink/pkg/jsonfile"
)

// Filename is the basename of a package manifest.
const Filename = "package.json"

// DependencyGroup names one of the dependency maps of a manifest.
type DependencyGroup string

const (
	Dependencies         DependencyGroup = "dependencies"
	DevDependencies      DependencyGroup = "devDependencies"
	OptionalDependencies DependencyGroup = "optionalDependencies"
	PeerDependencies     DependencyGroup = "peerDependencies"
)

// DependencyGroups lists every group in the order they are scanned.
var DependencyGroups = []DependencyGroup{
	Dependencies,
	DevDependencies,
	OptionalDependencies,
	PeerDependencies,
}

// Dependency is one entry of a dependency group.
type Dependency struct {
	Name    string
	Version string
	Group   DependencyGroup
}

// Manifest is a parsed package.json.
type Manifest struct {
	Name    string
	Version string

	doc *jsonfile.Document
}

// Parse decodes and validates manifest data.
func Parse(data []byte) (*Manifest, error) {
	doc, err := jsonfile.Parse(data)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeParse, err, "invalid JSON")
	}
	return FromDocument(doc)
}

// FromDocument validates doc and wraps it as a Manifest. The manifest takes
// ownership of doc.
func FromDocument(doc *jsonfile.Document) (*Manifest, error) {
	m := &Manifest{doc: doc}

	var err error
	if m.Name, err = requiredString(doc, "name"); err != nil {
		return nil, err
	}
	if err := errs.ValidatePackageName(m.Name); err != nil {
		return nil, err
	}
	if m.Version, err = requiredString(doc, "version"); err != nil {
		return nil, err
	}

	for _, g := range DependencyGroups {
		if _, err := m.group(g); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func requiredString(doc *jsonfile.Document, key string) (string, error) {
	raw, ok := doc.Raw(key)
	if !ok {
		return "", errs.New(errs.ErrCodeInvalidManifest, "missing required field %q", key)
	}
	s, ok := decodeString(raw)
	if !ok {
		return "", errs.New(errs.ErrCodeInvalidManifest, "field %q must be a string, found %s", key, raw)
	}
	return s, nil
}

// decodeString reports whether raw encodes a JSON string. null is rejected,
// which json.Unmarshal into a string would accept.
func decodeString(raw json.RawMessage) (string, bool) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// group returns the ordered group object, or nil when the group is absent.
func (m *Manifest) group(g DependencyGroup) (*jsonfile.Document, error) {
	sub, ok, err := m.doc.Object(string(g))
	if !ok {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidManifest, err, "dependency group %q must be an object", g)
	}
	for _, name := range sub.Keys() {
		raw, _ := sub.Raw(name)
		if _, ok := decodeString(raw); !ok {
			return nil, errs.New(errs.ErrCodeInvalidVersion,
				"%s: version of dependency %q must be a string, found %s", g, name, raw)
		}
	}
	return sub, nil
}

// HasGroup reports whether the manifest declares group g.
func (m *Manifest) HasGroup(g DependencyGroup) bool {
	return m.doc.Has(string(g))
}

// Group returns the entries of g in declaration order.
func (m *Manifest) Group(g DependencyGroup) []Dependency {
	sub, _ := m.group(g)
	if sub == nil {
		return nil
	}
	deps := make([]Dependency, 0, sub.Len())
	for _, name := range sub.Keys() {
		var version string
		_, _ = sub.Decode(name, &version)
		deps = append(deps, Dependency{Name: name, Version: version, Group: g})
	}
	return deps
}

// AllDependencies returns the entries of every group, group by group.
func (m *Manifest) AllDependencies() []Dependency {
	var all []Dependency
	for _, g := range DependencyGroups {
		all = append(all, m.Group(g)...)
	}
	return all
}

// DependencyVersions returns every distinct version declared for name across
// all groups, in group order.
func (m *Manifest) DependencyVersions(name string) []string {
	var versions []string
	seen := make(map[string]bool)
	for _, d := range m.AllDependencies() {
		if d.Name == name && !seen[d.Version] {
			seen[d.Version] = true
			versions = append(versions, d.Version)
		}
	}
	return versions
}

// SetDependencyVersion replaces the version of an existing entry.
// The entry keeps its position within the group.
func (m *Manifest) SetDependencyVersion(g DependencyGroup, name, version string) error {
	sub, err := m.group(g)
	if err != nil {
		return err
	}
	if sub == nil || !sub.Has(name) {
		return errs.New(errs.ErrCodePackageNotFound, "%s does not declare %q", g, name)
	}
	if err := sub.Set(name, version); err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "set %s.%s", g, name)
	}
	raw, err := sub.MarshalJSON()
	if err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "encode %s", g)
	}
	m.doc.SetRaw(string(g), raw)
	return nil
}

// EqualDependencies reports whether both manifests declare the same entries,
// with the same versions, in every dependency group.
func (m *Manifest) EqualDependencies(other *Manifest) bool {
	for _, g := range DependencyGroups {
		a, b := m.Group(g), other.Group(g)
		if len(a) != len(b) || m.HasGroup(g) != other.HasGroup(g) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
	}
	return true
}

// Clone returns an independent copy of the manifest.
func (m *Manifest) Clone() *Manifest {
	return &Manifest{Name: m.Name, Version: m.Version, doc: m.doc.Clone()}
}

// Document returns the underlying document, including opaque fields.
func (m *Manifest) Document() *jsonfile.Document {
	return m.doc
}

// UnscopedName returns the name without its npm scope: "@acme/util" yields "util".
func (m *Manifest) UnscopedName() string {
	if i := strings.LastIndex(m.Name, "/"); i >= 0 {
		return m.Name[i+1:]
	}
	return m.Name
}

// PackBasename returns the archive name produced by `npm pack`, for example
// "acme-util-1.0.0.tgz" for "@acme/util" at version 1.0.0.
func (m *Manifest) PackBasename() string {
	name := strings.ReplaceAll(strings.TrimPrefix(m.Name, "@"), "/", "-")
	return fmt.Sprintf("%s-%s.tgz", name, m.Version)
}
