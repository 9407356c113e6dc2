package pin

import (
	"context"
	"testing"

	"github.com/matzehuels/monolink/internal/testutil"
	"github.com/matzehuels/monolink/pkg/config"
	errs "github.com/matzehuels/monolink/pkg/errors"
	"github.com/matzehuels/monolink/pkg/monorepo"
	"github.com/matzehuels/monolink/pkg/reconcile"
)

const consumer = `{
  "name": "y",
  "version": "2.0.0",
  "description": "consumer <of> x & friends",
  "dependencies": {
    "x": "0.9.0",
    "lodash": "^4.17.21"
  },
  "scripts": {
    "build": "tsc -b"
  }
}
`

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

func runPin(t *testing.T, mc *monorepo.Context, ix *monorepo.Index, mode reconcile.Mode) *reconcile.Report {
	t.Helper()
	jobs, err := Jobs(mc, ix)
	if err != nil {
		t.Fatal(err)
	}
	return reconcile.Run(context.Background(), mode, 2, jobs)
}

func TestPin(t *testing.T) {
	pinned := testutil.Manifest("x", "1.0.0")
	mc, ix := setup(t, testutil.Tree{
		"lerna.json":              `{"packages": ["packages/*"]}`,
		"packages/x/package.json": pinned,
		"packages/y/package.json": consumer,
	})

	lint := runPin(t, mc, ix, reconcile.Lint)
	drifted := lint.Drifted()
	if len(drifted) != 1 || drifted[0].Path != "packages/y/package.json" {
		t.Fatalf("Drifted() = %+v, want packages/y/package.json", drifted)
	}
	if want := "dependency: x\texpected: 1.0.0\tgot: 0.9.0"; len(drifted[0].Detail) != 1 || drifted[0].Detail[0] != want {
		t.Errorf("Detail = %q, want [%q]", drifted[0].Detail, want)
	}
	if !errs.Is(lint.Err(), errs.ErrCodeOutOfDate) {
		t.Errorf("lint Err() = %v, want OUT_OF_DATE", lint.Err())
	}

	if err := runPin(t, mc, ix, reconcile.Modify).Err(); err != nil {
		t.Fatalf("modify Err() = %v", err)
	}

	want := `{
  "name": "y",
  "version": "2.0.0",
  "description": "consumer <of> x & friends",
  "dependencies": {
    "x": "1.0.0",
    "lodash": "^4.17.21"
  },
  "scripts": {
    "build": "tsc -b"
  }
}
`
	if got := testutil.Read(t, mc.Root, "packages/y/package.json"); got != want {
		t.Errorf("packages/y/package.json =\n%s\nwant\n%s", got, want)
	}
	if got := testutil.Read(t, mc.Root, "packages/x/package.json"); got != pinned {
		t.Errorf("packages/x/package.json changed:\n%s", got)
	}
}

func TestPinIdempotent(t *testing.T) {
	tree := testutil.Tree{
		"lerna.json":              `{"packages": ["packages/*"]}`,
		"packages/x/package.json": testutil.Manifest("x", "1.0.0"),
		"packages/y/package.json": consumer,
	}
	mc, ix := setup(t, tree)
	if err := runPin(t, mc, ix, reconcile.Modify).Err(); err != nil {
		t.Fatal(err)
	}

	mc2, err := monorepo.NewContext(mc.Root, config.Default(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	ix2, err := monorepo.Build(context.Background(), mc2)
	if err != nil {
		t.Fatal(err)
	}
	second := runPin(t, mc2, ix2, reconcile.Modify)
	if n := len(second.Written()); n != 0 {
		t.Errorf("second run wrote %d manifests, want 0", n)
	}
}

func TestPinUnpinnableVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
	}{
		{"workspace", "workspace:*"},
		{"file", "file:../x"},
		{"link", "link:../x"},
		{"npm alias", "npm:x@1.0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ix := setup(t, testutil.Tree{
				"lerna.json":              `{"packages": ["packages/*"]}`,
				"packages/x/package.json": testutil.Manifest("x", "1.0.0"),
				"packages/y/package.json": testutil.Manifest("y", "1.0.0", testutil.DevDeps([2]string{"x", tt.version})),
			})
			_, err := Plans(ix)
			if got := errs.GetCode(err); got != errs.ErrCodeUnpinnableVersion {
				t.Errorf("GetCode() = %v, want %v (%v)", got, errs.ErrCodeUnpinnableVersion, err)
			}
		})
	}
}

func TestDesiredIgnoresExternalDependencies(t *testing.T) {
	_, ix := setup(t, testutil.Tree{
		"lerna.json":              `{"packages": ["packages/*"]}`,
		"packages/y/package.json": testutil.Manifest("y", "1.0.0", testutil.Deps([2]string{"react", "workspace:*"})),
	})
	y, _ := ix.Package("y")
	plan, err := Desired(ix, y)
	if err != nil {
		t.Fatalf("Desired failed: %v", err)
	}
	if len(plan.Unpinned) != 0 {
		t.Errorf("Unpinned = %v, want none", plan.Unpinned)
	}
}
