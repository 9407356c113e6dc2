package references

import (
	"encoding/json"
	"fmt"
	"path"
	"path/filepath"
	"slices"
	"sort"

	errs "github.com/matzehuels/monolink/pkg/errors"
	"github.com/matzehuels/monolink/pkg/graph"
	"github.com/matzehuels/monolink/pkg/jsonfile"
	"github.com/matzehuels/monolink/pkg/manifest"
	"github.com/matzehuels/monolink/pkg/monorepo"
	"github.com/matzehuels/monolink/pkg/reconcile"
)

// Reference is one entry of a "references" array.
type Reference struct {
	Path string `json:"path"`
}

const (
	referencesKey = "references"
	filesKey      = "files"
)

// Jobs returns the reconciliation jobs for every parent and package
// configuration file of the monorepo.
func Jobs(mc *monorepo.Context, ix *monorepo.Index) ([]reconcile.Job, error) {
	tree, err := ParentTree(ix.Packages())
	if err != nil {
		return nil, err
	}
	return append(ParentJobs(mc, ix, tree), PackageJobs(mc, ix, tree)...), nil
}

// ParentJobs returns a job per directory of tree. A directory that is itself
// a package is skipped; [PackageJobs] merges its child references into the
// package file.
func ParentJobs(mc *monorepo.Context, ix *monorepo.Index, tree map[string][]string) []reconcile.Job {
	dirs := make([]string, 0, len(tree))
	for dir := range tree {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	file := mc.Config.References.ParentFile
	jobs := make([]reconcile.Job, 0, len(dirs))
	for _, dir := range dirs {
		if p, ok := ix.PackageByDir(dir); ok {
			mc.Logger.Debug("merging parent references into package", "dir", dir, "package", p.Name())
			continue
		}
		rel := path.Join(dir, file)
		desired := toReferences(tree[dir])
		jobs = append(jobs, reconcile.NewJob(rel, func() (*reconcile.Artifact[[]Reference], error) {
			return parentArtifact(mc, rel, desired)
		}))
	}
	return jobs
}

func parentArtifact(mc *monorepo.Context, rel string, desired []Reference) (*reconcile.Artifact[[]Reference], error) {
	doc, err := mc.Store.Read(mc.Abs(rel))
	switch {
	case jsonfile.IsNotFound(err):
		doc = jsonfile.NewDocument()
	case err != nil:
		return nil, err
	}
	current, err := currentReferences(doc, rel)
	if err != nil {
		return nil, err
	}
	return &reconcile.Artifact[[]Reference]{
		Path:     rel,
		Desired:  desired,
		Current:  current,
		Equal:    equal,
		Describe: describe,
		Write: func(refs []Reference) error {
			out := doc.Clone()
			if !out.Has(filesKey) {
				if err := out.Set(filesKey, []string{}); err != nil {
					return err
				}
			}
			return writeReferences(mc, rel, out, refs)
		},
	}, nil
}

// PackageJobs returns a job per package configuration file. Children listed
// for the package directory in tree are referenced next to its dependencies.
func PackageJobs(mc *monorepo.Context, ix *monorepo.Index, tree map[string][]string) []reconcile.Job {
	g := graph.New(ix)
	pkgs := ix.Packages()
	jobs := make([]reconcile.Job, 0, len(pkgs))
	for _, p := range pkgs {
		rel := path.Join(p.Dir, mc.Config.References.PackageFile)
		children := tree[p.Dir]
		jobs = append(jobs, reconcile.NewJob(rel, func() (*reconcile.Artifact[[]Reference], error) {
			return packageArtifact(mc, g, p, rel, children)
		}))
	}
	return jobs
}

func packageArtifact(mc *monorepo.Context, g *graph.Graph, p *manifest.Package, rel string, children []string) (*reconcile.Artifact[[]Reference], error) {
	deps, err := DesiredPackageReferences(g, p)
	if err != nil {
		return nil, err
	}
	desired := mergeReferences(deps, toReferences(children))
	doc, err := mc.Store.Read(mc.Abs(rel))
	if err != nil {
		return nil, err
	}
	current, err := currentReferences(doc, rel)
	if err != nil {
		return nil, err
	}
	return &reconcile.Artifact[[]Reference]{
		Path:     rel,
		Desired:  desired,
		Current:  current,
		Equal:    equal,
		Describe: describe,
		Write: func(refs []Reference) error {
			return writeReferences(mc, rel, doc.Clone(), refs)
		},
	}, nil
}

// DesiredPackageReferences returns the direct internal dependencies of p as
// sorted paths relative to p's directory.
func DesiredPackageReferences(g *graph.Graph, p *manifest.Package) ([]Reference, error) {
	deps := g.Direct(p)
	paths := make([]string, 0, len(deps))
	for _, dep := range deps {
		rel, err := filepath.Rel(filepath.FromSlash(p.Dir), filepath.FromSlash(dep.Dir))
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "relative path from %s to %s", p.Dir, dep.Dir)
		}
		rel = filepath.ToSlash(rel)
		if err := errs.ValidatePathEncoding(rel); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidEncoding, err, "reference from %s to %s", p.Name(), dep.Name())
		}
		paths = append(paths, rel)
	}
	sort.Strings(paths)
	return toReferences(paths), nil
}

// mergeReferences returns the sorted union of a and b.
func mergeReferences(a, b []Reference) []Reference {
	if len(b) == 0 {
		return a
	}
	seen := make(map[string]bool, len(a)+len(b))
	var paths []string
	for _, r := range append(append([]Reference(nil), a...), b...) {
		if !seen[r.Path] {
			seen[r.Path] = true
			paths = append(paths, r.Path)
		}
	}
	sort.Strings(paths)
	return toReferences(paths)
}

func toReferences(paths []string) []Reference {
	refs := make([]Reference, len(paths))
	for i, p := range paths {
		refs[i] = Reference{Path: p}
	}
	return refs
}

func currentReferences(doc *jsonfile.Document, rel string) ([]Reference, error) {
	raw, ok := doc.Raw(referencesKey)
	if !ok {
		return nil, nil
	}
	var refs []Reference
	if err := json.Unmarshal(raw, &refs); err != nil {
		return nil, errs.Wrap(errs.ErrCodeParse, err, "%s: \"references\" must be an array of {\"path\": string}", rel)
	}
	return refs, nil
}

func writeReferences(mc *monorepo.Context, rel string, doc *jsonfile.Document, refs []Reference) error {
	if refs == nil {
		refs = []Reference{}
	}
	if err := doc.Set(referencesKey, refs); err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "encode references")
	}
	return mc.Store.Write(mc.Abs(rel), doc)
}

func equal(a, b []Reference) bool {
	return slices.Equal(a, b)
}

func describe(desired, current []Reference) []string {
	want := make(map[string]bool, len(desired))
	for _, r := range desired {
		want[r.Path] = true
	}
	have := make(map[string]bool, len(current))
	for _, r := range current {
		have[r.Path] = true
	}

	var lines []string
	for _, r := range desired {
		if !have[r.Path] {
			lines = append(lines, fmt.Sprintf("missing reference: %s", r.Path))
		}
	}
	for _, r := range current {
		if !want[r.Path] {
			lines = append(lines, fmt.Sprintf("extraneous reference: %s", r.Path))
		}
	}
	if len(lines) == 0 {
		lines = append(lines, "references are not sorted")
	}
	return lines
}
