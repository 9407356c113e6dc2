package versions

import (
	"fmt"
	"sort"
	"strings"

	mm "github.com/Masterminds/semver/v3"

	errs "github.com/matzehuels/monolink/pkg/errors"
	"github.com/matzehuels/monolink/pkg/monorepo"
)

// Usage is one package declaring a dependency at a version.
type Usage struct {
	Package string
	Path    string
	Version string
}

// Violation is a usage that differs from the expected version.
type Violation struct {
	Dependency string
	Usage
	Expected string
}

func (v Violation) String() string {
	return fmt.Sprintf("In %s, expected version %s but found version %s", v.Path, v.Expected, v.Version)
}

// Result is the lint outcome for one dependency.
type Result struct {
	Dependency string
	// Expected is empty when the dependency is unused.
	Expected   string
	Usages     []Usage
	Violations []Violation
}

// Consistent reports whether every usage agrees.
func (r *Result) Consistent() bool { return len(r.Violations) == 0 }

// Usages returns every declaration of dependency, ordered by package name.
func Usages(ix *monorepo.Index, dependency string) []Usage {
	var out []Usage
	for _, p := range ix.Packages() {
		for _, v := range p.Manifest.DependencyVersions(dependency) {
			out = append(out, Usage{Package: p.Name(), Path: p.ManifestPath(), Version: v})
		}
	}
	return out
}

// Lint checks the versions of a single dependency.
func Lint(ix *monorepo.Index, dependency string) *Result {
	r := &Result{Dependency: dependency, Usages: Usages(ix, dependency)}
	if len(r.Usages) == 0 {
		return r
	}

	counts := make(map[string]int)
	for _, u := range r.Usages {
		counts[u.Version]++
	}
	r.Expected = Expected(counts)
	if len(counts) == 1 {
		return r
	}
	for _, u := range r.Usages {
		if u.Version != r.Expected {
			r.Violations = append(r.Violations, Violation{Dependency: dependency, Usage: u, Expected: r.Expected})
		}
	}
	return r
}

// LintAll checks every dependency in order. With no dependencies it checks
// every external dependency of the monorepo.
func LintAll(ix *monorepo.Index, dependencies []string) []*Result {
	if len(dependencies) == 0 {
		dependencies = External(ix)
	}
	results := make([]*Result, len(dependencies))
	for i, dep := range dependencies {
		results[i] = Lint(ix, dep)
	}
	return results
}

// Err returns an INCONSISTENT_VERSIONS error naming every inconsistent
// dependency, or nil.
func Err(results []*Result) error {
	var names []string
	for _, r := range results {
		if !r.Consistent() {
			names = append(names, r.Dependency)
		}
	}
	if len(names) == 0 {
		return nil
	}
	return errs.New(errs.ErrCodeInconsistentVersions,
		"found unexpected versions of %s", strings.Join(names, ", "))
}

// External returns the sorted names of every dependency that is not an
// internal package.
func External(ix *monorepo.Index) []string {
	seen := make(map[string]bool)
	for _, p := range ix.Packages() {
		for _, d := range p.Manifest.AllDependencies() {
			if !ix.Contains(d.Name) {
				seen[d.Name] = true
			}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Expected picks the most used version. Ties go to the highest semantic
// version, then to the lexicographically smallest string.
func Expected(counts map[string]int) string {
	var candidates []string
	best := 0
	for v, n := range counts {
		switch {
		case n > best:
			best, candidates = n, []string{v}
		case n == best:
			candidates = append(candidates, v)
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return preferred(candidates[i], candidates[j]) })
	if len(candidates) == 0 {
		return ""
	}
	return candidates[0]
}

func preferred(a, b string) bool {
	va, errA := parse(a)
	vb, errB := parse(b)
	switch {
	case errA == nil && errB == nil:
		if c := va.Compare(vb); c != 0 {
			return c > 0
		}
	case errA == nil:
		return true
	case errB == nil:
		return false
	}
	return a < b
}

func parse(version string) (*mm.Version, error) {
	return mm.NewVersion(strings.TrimLeft(version, "^~=v "))
}
