package monorepo

import (
	"context"
	"fmt"
	"sort"
	"strings"

	errs "github.com/matzehuels/monolink/pkg/errors"
)

// WorkspaceReport is the result of [LintWorkspaces].
type WorkspaceReport struct {
	// Undeclared lists packages found on disk that no workspace glob matches.
	Undeclared []string
	// Unlisted lists declared packages missing from the on-disk walk, which
	// happens when ignore patterns hide them.
	Unlisted []string
}

// OK reports whether declared and on-disk packages agree.
func (r *WorkspaceReport) OK() bool {
	return len(r.Undeclared) == 0 && len(r.Unlisted) == 0
}

// Err returns a WORKSPACE_MISMATCH error listing every difference, or nil.
func (r *WorkspaceReport) Err() error {
	if r.OK() {
		return nil
	}
	var lines []string
	for _, name := range r.Undeclared {
		lines = append(lines, fmt.Sprintf("%s is not matched by any workspace glob", name))
	}
	for _, name := range r.Unlisted {
		lines = append(lines, fmt.Sprintf("%s is declared but not found on disk", name))
	}
	return errs.New(errs.ErrCodeWorkspaceMismatch, "%s", strings.Join(lines, "\n"))
}

// LintWorkspaces compares the packages of ix with every package.json below
// the root. Only names starting with scope are compared; an empty scope
// compares all of them.
func LintWorkspaces(ctx context.Context, mc *Context, ix *Index, scope string) (*WorkspaceReport, error) {
	dirs, err := Discover(ctx, mc, []string{"**"})
	if err != nil {
		return nil, err
	}
	pkgs, err := LoadPackages(ctx, mc, dirs)
	if err != nil {
		return nil, err
	}

	onDisk := make(map[string]bool, len(pkgs))
	for _, p := range pkgs {
		if strings.HasPrefix(p.Name(), scope) {
			onDisk[p.Name()] = true
		}
	}
	declared := make(map[string]bool, ix.Len())
	for _, name := range ix.Names() {
		if strings.HasPrefix(name, scope) {
			declared[name] = true
		}
	}

	report := &WorkspaceReport{}
	for name := range onDisk {
		if !declared[name] {
			report.Undeclared = append(report.Undeclared, name)
		}
	}
	for name := range declared {
		if !onDisk[name] {
			report.Unlisted = append(report.Unlisted, name)
		}
	}
	sort.Strings(report.Undeclared)
	sort.Strings(report.Unlisted)

	mc.Logger.Debug("linted workspaces", "declared", len(declared), "on_disk", len(onDisk))
	return report, nil
}
