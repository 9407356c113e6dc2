package monorepo

import (
	"context"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	errs "github.com/matzehuels/monolink/pkg/errors"
	"github.com/matzehuels/monolink/pkg/manifest"
)

const nodeModules = "node_modules"

// Discover expands globs into the sorted, deduplicated set of package
// directories under mc.Root. Directories are slash separated and relative to
// the root.
func Discover(ctx context.Context, mc *Context, globs []string) ([]string, error) {
	var include, exclude []string
	for _, g := range globs {
		negated := strings.HasPrefix(g, "!")
		g = cleanGlob(strings.TrimPrefix(g, "!"))
		if !doublestar.ValidatePattern(g) {
			return nil, errs.New(errs.ErrCodeInvalidGlob, "invalid workspace glob %q", g)
		}
		if negated {
			exclude = append(exclude, g)
		} else {
			include = append(include, g)
		}
	}
	for _, g := range mc.Config.Ignore {
		g = cleanGlob(g)
		if !doublestar.ValidatePattern(g) {
			return nil, errs.New(errs.ErrCodeInvalidGlob, "invalid ignore pattern %q", g)
		}
		exclude = append(exclude, g)
	}

	fsys := os.DirFS(mc.Root)
	seen := make(map[string]bool)
	for _, g := range include {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pattern := path.Join(g, manifest.Filename)
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeDiscovery, err, "expand %q", pattern)
		}
		for _, m := range matches {
			dir := path.Dir(m)
			if dir == "." || seen[dir] || hasNodeModules(dir) || excluded(exclude, dir) {
				continue
			}
			seen[dir] = true
		}
	}

	dirs := make([]string, 0, len(seen))
	for dir := range seen {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	mc.Logger.Debug("expanded workspace globs", "globs", len(include), "packages", len(dirs))
	return dirs, nil
}

func cleanGlob(g string) string {
	g = strings.TrimSpace(g)
	g = strings.TrimPrefix(g, "./")
	return path.Clean(g)
}

func hasNodeModules(dir string) bool {
	for _, seg := range strings.Split(dir, "/") {
		if seg == nodeModules {
			return true
		}
	}
	return false
}

func excluded(patterns []string, dir string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, dir); ok {
			return true
		}
		if ok, _ := doublestar.Match(p, path.Join(dir, manifest.Filename)); ok {
			return true
		}
	}
	return false
}

// LoadPackages parses the manifest of every directory with at most
// mc.Workers() concurrent reads. The first failure cancels the rest.
func LoadPackages(ctx context.Context, mc *Context, dirs []string) ([]*manifest.Package, error) {
	pkgs := make([]*manifest.Package, len(dirs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(mc.Workers())
	for i, dir := range dirs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			pkg, err := manifest.Load(mc.Root, dir)
			if err != nil {
				return err
			}
			pkgs[i] = pkg
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pkgs, nil
}

// Build reads the workspace declaration, discovers and loads every package,
// and indexes them by name.
func Build(ctx context.Context, mc *Context) (*Index, error) {
	decl, err := ReadDeclaration(mc.Root)
	if err != nil {
		return nil, err
	}
	mc.Logger.Debug("read workspace declaration", "source", decl.Source, "globs", decl.Globs)

	dirs, err := Discover(ctx, mc, decl.Globs)
	if err != nil {
		return nil, err
	}
	pkgs, err := LoadPackages(ctx, mc, dirs)
	if err != nil {
		return nil, err
	}
	return NewIndex(pkgs)
}
