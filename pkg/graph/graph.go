package graph

import (
	"sort"

	"github.com/matzehuels/monolink/pkg/manifest"
	"github.com/matzehuels/monolink/pkg/monorepo"
)

// Edge is one declared dependency of a package.
type Edge struct {
	From    string
	To      string
	Version string
	Group   manifest.DependencyGroup
	// Internal is true when To is a package of the monorepo.
	Internal bool
}

// Graph is the dependency graph of an Index.
type Graph struct {
	ix *monorepo.Index
}

// New returns the graph over ix.
func New(ix *monorepo.Index) *Graph {
	return &Graph{ix: ix}
}

// Edges returns every declared dependency of pkg in group order, then in
// declaration order within each group.
func (g *Graph) Edges(pkg *manifest.Package) []Edge {
	deps := pkg.Manifest.AllDependencies()
	edges := make([]Edge, 0, len(deps))
	for _, d := range deps {
		edges = append(edges, Edge{
			From:     pkg.Name(),
			To:       d.Name,
			Version:  d.Version,
			Group:    d.Group,
			Internal: g.ix.Contains(d.Name),
		})
	}
	return edges
}

// Direct returns the internal packages pkg depends on, deduplicated across
// groups and sorted by name.
func (g *Graph) Direct(pkg *manifest.Package) []*manifest.Package {
	seen := make(map[string]bool)
	var out []*manifest.Package
	for _, d := range pkg.Manifest.AllDependencies() {
		if seen[d.Name] {
			continue
		}
		if dep, ok := g.ix.Package(d.Name); ok {
			seen[d.Name] = true
			out = append(out, dep)
		}
	}
	SortByName(out)
	return out
}

// Transitive returns every internal package reachable from pkg, sorted by
// name. With inclusive set, pkg itself is part of the result.
func (g *Graph) Transitive(pkg *manifest.Package, inclusive bool) []*manifest.Package {
	visited := map[string]bool{pkg.Name(): true}
	queue := []*manifest.Package{pkg}
	var out []*manifest.Package
	if inclusive {
		out = append(out, pkg)
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, dep := range g.Direct(cur) {
			if visited[dep.Name()] {
				continue
			}
			visited[dep.Name()] = true
			out = append(out, dep)
			queue = append(queue, dep)
		}
	}

	SortByName(out)
	return out
}

// Dependents returns the internal packages that depend directly on pkg,
// sorted by name.
func (g *Graph) Dependents(pkg *manifest.Package) []*manifest.Package {
	var out []*manifest.Package
	for _, p := range g.ix.Packages() {
		for _, dep := range g.Direct(p) {
			if dep.Name() == pkg.Name() {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// SortByName sorts pkgs in place by package name.
func SortByName(pkgs []*manifest.Package) {
	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].Name() < pkgs[j].Name() })
}

// SortByDir sorts pkgs in place by directory.
func SortByDir(pkgs []*manifest.Package) {
	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].Dir < pkgs[j].Dir })
}
