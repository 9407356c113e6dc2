package references

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/matzehuels/monolink/internal/testutil"
	"github.com/matzehuels/monolink/pkg/config"
	errs "github.com/matzehuels/monolink/pkg/errors"
	"github.com/matzehuels/monolink/pkg/graph"
	"github.com/matzehuels/monolink/pkg/manifest"
	"github.com/matzehuels/monolink/pkg/monorepo"
	"github.com/matzehuels/monolink/pkg/reconcile"
)

func TestParentTree(t *testing.T) {
	pkgs := []*manifest.Package{
		{Dir: "pkg/b"},
		{Dir: "pkg/a"},
		{Dir: "tools/build/cli"},
	}
	tree, err := ParentTree(pkgs)
	if err != nil {
		t.Fatalf("ParentTree failed: %v", err)
	}
	want := map[string][]string{
		".":           {"pkg", "tools"},
		"pkg":         {"a", "b"},
		"tools":       {"build"},
		"tools/build": {"cli"},
	}
	if !reflect.DeepEqual(tree, want) {
		t.Errorf("ParentTree() = %v, want %v", tree, want)
	}
}

func TestParentTreeInvalidEncoding(t *testing.T) {
	_, err := ParentTree([]*manifest.Package{{Dir: "pkg/bad\x01name"}})
	if got := errs.GetCode(err); got != errs.ErrCodeInvalidEncoding {
		t.Errorf("GetCode() = %v, want %v", got, errs.ErrCodeInvalidEncoding)
	}
}

func fixture() testutil.Tree {
	return testutil.Tree{
		"lerna.json":          `{"packages": ["pkg/*"]}`,
		"pkg/a/package.json":  testutil.Manifest("a", "1.0.0"),
		"pkg/a/tsconfig.json": "{\n  \"extends\": \"../../tsconfig.settings.json\"\n}\n",
		"pkg/b/package.json":  testutil.Manifest("b", "1.0.0", testutil.Deps([2]string{"a", "1.0.0"})),
		"pkg/b/tsconfig.json": "{\n  \"compilerOptions\": {\n    \"outDir\": \"dist\"\n  }\n}\n",
	}
}

func setup(t *testing.T, tree testutil.Tree) (*monorepo.Context, *monorepo.Index) {
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
	return mc, ix
}

func run(t *testing.T, mc *monorepo.Context, ix *monorepo.Index, mode reconcile.Mode) *reconcile.Report {
	t.Helper()
	jobs, err := Jobs(mc, ix)
	if err != nil {
		t.Fatal(err)
	}
	return reconcile.Run(context.Background(), mode, 4, jobs)
}

func TestLink(t *testing.T) {
	mc, ix := setup(t, fixture())

	report := run(t, mc, ix, reconcile.Modify)
	if err := report.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}

	tests := []struct {
		path string
		want string
	}{
		{"tsconfig.json", "{\n  \"files\": [],\n  \"references\": [\n    {\n      \"path\": \"pkg\"\n    }\n  ]\n}\n"},
		{"pkg/tsconfig.json", "{\n  \"files\": [],\n  \"references\": [\n    {\n      \"path\": \"a\"\n    },\n    {\n      \"path\": \"b\"\n    }\n  ]\n}\n"},
		{"pkg/a/tsconfig.json", "{\n  \"extends\": \"../../tsconfig.settings.json\"\n}\n"},
		{"pkg/b/tsconfig.json", "{\n  \"compilerOptions\": {\n    \"outDir\": \"dist\"\n  },\n  \"references\": [\n    {\n      \"path\": \"../a\"\n    }\n  ]\n}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := testutil.Read(t, mc.Root, tt.path); got != tt.want {
				t.Errorf("%s =\n%s\nwant\n%s", tt.path, got, tt.want)
			}
		})
	}
}

func TestLinkIdempotent(t *testing.T) {
	mc, ix := setup(t, fixture())

	if err := run(t, mc, ix, reconcile.Modify).Err(); err != nil {
		t.Fatal(err)
	}
	before := testutil.Read(t, mc.Root, "pkg/b/tsconfig.json")

	second := run(t, mc, ix, reconcile.Modify)
	if n := len(second.Written()); n != 0 {
		t.Errorf("second run wrote %d files, want 0", n)
	}
	if after := testutil.Read(t, mc.Root, "pkg/b/tsconfig.json"); after != before {
		t.Errorf("second run changed file:\n%s\nwant\n%s", after, before)
	}
	if err := run(t, mc, ix, reconcile.Lint).Err(); err != nil {
		t.Errorf("lint after modify Err() = %v, want nil", err)
	}
}

func TestLintMatchesModify(t *testing.T) {
	lintCtx, lintIx := setup(t, fixture())
	modCtx, modIx := setup(t, fixture())

	lint := run(t, lintCtx, lintIx, reconcile.Lint)
	modify := run(t, modCtx, modIx, reconcile.Modify)

	var drifted, written []string
	for _, r := range lint.Drifted() {
		drifted = append(drifted, r.Path)
	}
	for _, r := range modify.Written() {
		written = append(written, r.Path)
	}
	want := []string{"pkg/b/tsconfig.json", "pkg/tsconfig.json", "tsconfig.json"}
	if !reflect.DeepEqual(drifted, want) {
		t.Errorf("lint drifted %v, want %v", drifted, want)
	}
	if !reflect.DeepEqual(written, want) {
		t.Errorf("modify wrote %v, want %v", written, want)
	}
	if !errs.Is(lint.Err(), errs.ErrCodeOutOfDate) {
		t.Errorf("lint Err() = %v, want OUT_OF_DATE", lint.Err())
	}
	if _, err := os.Stat(filepath.Join(lintCtx.Root, "tsconfig.json")); !os.IsNotExist(err) {
		t.Errorf("lint created the root tsconfig.json")
	}
}

func TestParentKeepsExistingFields(t *testing.T) {
	tree := fixture()
	tree["pkg/tsconfig.json"] = "{\n  \"compilerOptions\": {\n    \"composite\": true\n  },\n  \"files\": [\"index.ts\"],\n  \"references\": [\n    {\n      \"path\": \"b\"\n    }\n  ]\n}\n"
	mc, ix := setup(t, tree)

	if err := run(t, mc, ix, reconcile.Modify).Err(); err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"compilerOptions\": {\n    \"composite\": true\n  },\n  \"files\": [\n    \"index.ts\"\n  ],\n  \"references\": [\n    {\n      \"path\": \"a\"\n    },\n    {\n      \"path\": \"b\"\n    }\n  ]\n}\n"
	if got := testutil.Read(t, mc.Root, "pkg/tsconfig.json"); got != want {
		t.Errorf("pkg/tsconfig.json =\n%s\nwant\n%s", got, want)
	}
}

func TestPackageFailures(t *testing.T) {
	tree := fixture()
	delete(tree, "pkg/a/tsconfig.json")
	tree["pkg/b/tsconfig.json"] = `{"references": "../a"}`
	mc, ix := setup(t, tree)

	report := run(t, mc, ix, reconcile.Modify)
	failed := report.Failed()
	if len(failed) != 2 {
		t.Fatalf("Failed() = %d results, want 2: %+v", len(failed), failed)
	}
	if failed[0].Path != "pkg/a/tsconfig.json" || !errs.Is(failed[0].Err, errs.ErrCodeFileNotFound) {
		t.Errorf("failed[0] = %+v, want FILE_NOT_FOUND for pkg/a/tsconfig.json", failed[0])
	}
	if failed[1].Path != "pkg/b/tsconfig.json" || !errs.Is(failed[1].Err, errs.ErrCodeParse) {
		t.Errorf("failed[1] = %+v, want PARSE_ERROR for pkg/b/tsconfig.json", failed[1])
	}
	if got := len(report.Written()); got != 2 {
		t.Errorf("Written() = %d results, want 2 parent files", got)
	}
}

func TestPackageWithNestedPackages(t *testing.T) {
	mc, ix := setup(t, testutil.Tree{
		"lerna.json":                    `{"packages": ["app", "app/plugins/*"]}`,
		"app/package.json":              testutil.Manifest("app", "1.0.0"),
		"app/tsconfig.json":             "{}\n",
		"app/plugins/one/package.json":  testutil.Manifest("one", "1.0.0", testutil.Deps([2]string{"app", "1.0.0"})),
		"app/plugins/one/tsconfig.json": "{}\n",
	})

	tree, err := ParentTree(ix.Packages())
	if err != nil {
		t.Fatal(err)
	}
	var paths []string
	for _, j := range ParentJobs(mc, ix, tree) {
		paths = append(paths, j.Path())
	}
	if want := []string{"tsconfig.json", "app/plugins/tsconfig.json"}; !reflect.DeepEqual(paths, want) {
		t.Errorf("ParentJobs() paths = %v, want %v", paths, want)
	}

	if err := run(t, mc, ix, reconcile.Modify).Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}
	tests := []struct {
		path string
		want string
	}{
		{"tsconfig.json", "{\n  \"files\": [],\n  \"references\": [\n    {\n      \"path\": \"app\"\n    }\n  ]\n}\n"},
		{"app/tsconfig.json", "{\n  \"references\": [\n    {\n      \"path\": \"plugins\"\n    }\n  ]\n}\n"},
		{"app/plugins/tsconfig.json", "{\n  \"files\": [],\n  \"references\": [\n    {\n      \"path\": \"one\"\n    }\n  ]\n}\n"},
		{"app/plugins/one/tsconfig.json", "{\n  \"references\": [\n    {\n      \"path\": \"../..\"\n    }\n  ]\n}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := testutil.Read(t, mc.Root, tt.path); got != tt.want {
				t.Errorf("%s =\n%s\nwant\n%s", tt.path, got, tt.want)
			}
		})
	}

	if n := len(run(t, mc, ix, reconcile.Modify).Written()); n != 0 {
		t.Errorf("second run wrote %d files, want 0", n)
	}
}

func TestMergeReferences(t *testing.T) {
	got := mergeReferences(
		[]Reference{{Path: "../lib"}, {Path: "plugins"}},
		[]Reference{{Path: "plugins"}, {Path: "extras"}},
	)
	want := []Reference{{Path: "../lib"}, {Path: "extras"}, {Path: "plugins"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("mergeReferences() = %v, want %v", got, want)
	}
}

func TestDesiredPackageReferences(t *testing.T) {
	_, ix := setup(t, testutil.Tree{
		"lerna.json":            `{"packages": ["libs/*", "apps/web"]}`,
		"libs/z/package.json":   testutil.Manifest("z", "1.0.0"),
		"libs/m/package.json":   testutil.Manifest("m", "1.0.0"),
		"apps/web/package.json": testutil.Manifest("web", "1.0.0", testutil.Deps([2]string{"z", "1.0.0"}), testutil.DevDeps([2]string{"m", "1.0.0"}, [2]string{"z", "1.0.0"})),
	})
	web, _ := ix.Package("web")

	refs, err := DesiredPackageReferences(graph.New(ix), web)
	if err != nil {
		t.Fatal(err)
	}
	want := []Reference{{Path: "../../libs/m"}, {Path: "../../libs/z"}}
	if !reflect.DeepEqual(refs, want) {
		t.Errorf("DesiredPackageReferences() = %v, want %v", refs, want)
	}
}
