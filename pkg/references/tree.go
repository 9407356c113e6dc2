package references

import (
	"sort"
	"strings"

	errs "github.com/matzehuels/monolink/pkg/errors"
	"github.com/matzehuels/monolink/pkg/manifest"
)

// RootDir is the key of the monorepo root in a parent tree.
const RootDir = "."

// ParentTree maps every proper ancestor directory of the package directories
// to its sorted, deduplicated immediate child names. Directories are slash
// separated and relative to the root, which is [RootDir].
func ParentTree(pkgs []*manifest.Package) (map[string][]string, error) {
	tree := make(map[string][]string)
	for _, p := range pkgs {
		var err error
		if tree, err = foldPackage(tree, p.Dir); err != nil {
			return nil, err
		}
	}
	for dir, children := range tree {
		sort.Strings(children)
		tree[dir] = children
	}
	return tree, nil
}

func foldPackage(tree map[string][]string, dir string) (map[string][]string, error) {
	parent := RootDir
	for _, seg := range strings.Split(dir, "/") {
		if err := errs.ValidatePathEncoding(seg); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidEncoding, err, "package directory %q", dir)
		}
		if !contains(tree[parent], seg) {
			tree[parent] = append(tree[parent], seg)
		}
		if parent == RootDir {
			parent = seg
		} else {
			parent = parent + "/" + seg
		}
	}
	return tree, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
