package versions

import (
	"context"
	"reflect"
	"testing"

	"github.com/matzehuels/monolink/internal/testutil"
	"github.com/matzehuels/monolink/pkg/config"
	errs "github.com/matzehuels/monolink/pkg/errors"
	"github.com/matzehuels/monolink/pkg/monorepo"
)

func build(t *testing.T, tree testutil.Tree) *monorepo.Index {
	t.Helper()
	root := testutil.NewTree(t, tree)
	mc, err := monorepo.NewContext(root, config.Default(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	ix, err := monorepo.Build(context.Background(), mc)
	if err != nil {
		t.Fatal(err)
	}
	return ix
}

func dep(name, version string) [2]string { return [2]string{name, version} }

func TestLint(t *testing.T) {
	ix := build(t, testutil.Tree{
		"lerna.json":              `{"packages": ["packages/*"]}`,
		"packages/a/package.json": testutil.Manifest("a", "1.0.0", testutil.Deps(dep("lodash", "4.0.0"))),
		"packages/b/package.json": testutil.Manifest("b", "1.0.0", testutil.DevDeps(dep("lodash", "4.0.0"))),
		"packages/c/package.json": testutil.Manifest("c", "1.0.0", testutil.Deps(dep("lodash", "3.9.0"), dep("a", "1.0.0"))),
	})

	r := Lint(ix, "lodash")
	if r.Expected != "4.0.0" {
		t.Errorf("Expected = %q, want %q", r.Expected, "4.0.0")
	}
	want := []Violation{{
		Dependency: "lodash",
		Usage:      Usage{Package: "c", Path: "packages/c/package.json", Version: "3.9.0"},
		Expected:   "4.0.0",
	}}
	if !reflect.DeepEqual(r.Violations, want) {
		t.Errorf("Violations = %+v, want %+v", r.Violations, want)
	}
	if got := want[0].String(); got != "In packages/c/package.json, expected version 4.0.0 but found version 3.9.0" {
		t.Errorf("String() = %q", got)
	}
	if !errs.Is(Err([]*Result{r}), errs.ErrCodeInconsistentVersions) {
		t.Errorf("Err() = %v, want INCONSISTENT_VERSIONS", Err([]*Result{r}))
	}
}

func TestLintConsistent(t *testing.T) {
	ix := build(t, testutil.Tree{
		"lerna.json":              `{"packages": ["packages/*"]}`,
		"packages/a/package.json": testutil.Manifest("a", "1.0.0", testutil.Deps(dep("react", "18.2.0"))),
		"packages/b/package.json": testutil.Manifest("b", "1.0.0", testutil.Deps(dep("react", "18.2.0"))),
	})

	for _, name := range []string{"react", "unused"} {
		r := Lint(ix, name)
		if !r.Consistent() {
			t.Errorf("Lint(%s) violations = %+v, want none", name, r.Violations)
		}
	}
	if err := Err(LintAll(ix, nil)); err != nil {
		t.Errorf("Err() = %v, want nil", err)
	}
}

func TestLintAllContinuesAfterConsistentDependency(t *testing.T) {
	ix := build(t, testutil.Tree{
		"lerna.json":              `{"packages": ["packages/*"]}`,
		"packages/a/package.json": testutil.Manifest("a", "1.0.0", testutil.Deps(dep("react", "18.2.0"), dep("zod", "3.22.0"))),
		"packages/b/package.json": testutil.Manifest("b", "1.0.0", testutil.Deps(dep("react", "18.2.0"), dep("zod", "3.21.0"))),
	})

	results := LintAll(ix, []string{"react", "zod"})
	if len(results) != 2 {
		t.Fatalf("LintAll() returned %d results, want 2", len(results))
	}
	if !results[0].Consistent() || results[1].Consistent() {
		t.Errorf("consistency = [%v %v], want [true false]", results[0].Consistent(), results[1].Consistent())
	}
	if results[1].Expected != "3.22.0" {
		t.Errorf("Expected = %q, want tie broken to %q", results[1].Expected, "3.22.0")
	}
}

func TestExternal(t *testing.T) {
	ix := build(t, testutil.Tree{
		"lerna.json":              `{"packages": ["packages/*"]}`,
		"packages/a/package.json": testutil.Manifest("a", "1.0.0", testutil.Deps(dep("react", "18.2.0"), dep("b", "1.0.0"))),
		"packages/b/package.json": testutil.Manifest("b", "1.0.0", testutil.DevDeps(dep("typescript", "5.4.2"), dep("jest", "29.0.0"))),
	})
	if got, want := External(ix), []string{"jest", "react", "typescript"}; !reflect.DeepEqual(got, want) {
		t.Errorf("External() = %v, want %v", got, want)
	}
}

func TestExpected(t *testing.T) {
	tests := []struct {
		name   string
		counts map[string]int
		want   string
	}{
		{"majority", map[string]int{"1.0.0": 1, "2.0.0": 3}, "2.0.0"},
		{"tie highest semver", map[string]int{"1.2.0": 2, "1.10.0": 2}, "1.10.0"},
		{"tie with range prefix", map[string]int{"^2.0.0": 1, "~1.9.0": 1}, "^2.0.0"},
		{"tie semver before non-semver", map[string]int{"latest": 1, "0.1.0": 1}, "0.1.0"},
		{"tie non-semver lexicographic", map[string]int{"next": 1, "beta": 1}, "beta"},
		{"tie equal semver lexicographic", map[string]int{"^1.0.0": 1, "1.0.0": 1}, "1.0.0"},
		{"empty", map[string]int{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Expected(tt.counts); got != tt.want {
				t.Errorf("Expected() = %q, want %q", got, tt.want)
			}
		})
	}
}
