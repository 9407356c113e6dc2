package makefile

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path"
	"regexp"
	"strings"
	"text/template"

	errs "github.com/matzehuels/monolink/pkg/errors"
	"github.com/matzehuels/monolink/pkg/graph"
	"github.com/matzehuels/monolink/pkg/jsonfile"
	"github.com/matzehuels/monolink/pkg/manifest"
	"github.com/matzehuels/monolink/pkg/monorepo"
	"github.com/matzehuels/monolink/pkg/reconcile"
)

// DependenciesDir receives the archives of internal dependencies.
const DependenciesDir = ".internal-npm-dependencies"

//go:embed makefile.tmpl
var source string

var tmpl = template.Must(template.New("makefile").Parse(source))

// Options configures rendering.
type Options struct {
	// PackageDir is the package directory relative to the root.
	PackageDir string
	// OutputFile is the name of the fragment inside PackageDir.
	OutputFile string
	// CreatePackTarget adds npm pack archive targets.
	CreatePackTarget bool
}

// Archive copies the pack archive of a dependency.
type Archive struct {
	Target string
	Source string
}

type data struct {
	Name             string
	Unscoped         string
	Var              string
	PackageDir       string
	OutputFile       string
	OutputPath       string
	Manifests        []string
	CreatePackTarget bool
	PackArchive      string
	Archives         []Archive
}

var nonVarChars = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// ResolvePackage returns the package in dir, which need not be a declared
// workspace member.
func ResolvePackage(mc *monorepo.Context, ix *monorepo.Index, dir string) (*manifest.Package, error) {
	dir = path.Clean(strings.TrimPrefix(dir, "./"))
	if dir == "." || path.IsAbs(dir) || strings.HasPrefix(dir, "../") {
		return nil, errs.New(errs.ErrCodeInvalidInput, "package directory %q must be inside the monorepo", dir)
	}
	if p, ok := ix.PackageByDir(dir); ok {
		return p, nil
	}
	p, err := manifest.Load(mc.Root, dir)
	if err != nil {
		return nil, err
	}
	mc.Logger.Warn("package is not a workspace member", "dir", dir, "package", p.Name())
	return p, nil
}

// Render returns the fragment for p.
func Render(g *graph.Graph, p *manifest.Package, opts Options) (string, error) {
	deps := g.Transitive(p, false)
	graph.SortByDir(deps)

	d := data{
		Name:             p.Name(),
		Unscoped:         p.Manifest.UnscopedName(),
		Var:              strings.ToUpper(nonVarChars.ReplaceAllString(p.Manifest.UnscopedName(), "_")),
		PackageDir:       p.Dir,
		OutputFile:       opts.OutputFile,
		OutputPath:       path.Join(p.Dir, opts.OutputFile),
		CreatePackTarget: opts.CreatePackTarget,
		PackArchive:      p.PackPath(),
	}
	for _, dep := range deps {
		d.Manifests = append(d.Manifests, dep.ManifestPath())
		d.Archives = append(d.Archives, Archive{
			Target: path.Join(p.Dir, DependenciesDir, dep.Manifest.PackBasename()),
			Source: dep.PackPath(),
		})
	}
	d.Manifests = append(d.Manifests, p.ManifestPath())

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, d); err != nil {
		return "", errs.Wrap(errs.ErrCodeInternal, err, "render makefile for %s", p.Name())
	}
	out := strings.TrimRight(buf.String(), "\n") + "\n"
	return out, nil
}

// Job returns the reconciliation job for the fragment of the package in
// opts.PackageDir.
func Job(mc *monorepo.Context, ix *monorepo.Index, opts Options) (reconcile.Job, error) {
	if opts.OutputFile == "" {
		opts.OutputFile = mc.Config.Makefile.OutputFile
	}
	if path.Base(opts.OutputFile) != opts.OutputFile {
		return nil, errs.New(errs.ErrCodeInvalidInput, "output file %q must be a file name", opts.OutputFile)
	}
	p, err := ResolvePackage(mc, ix, opts.PackageDir)
	if err != nil {
		return nil, err
	}

	rel := path.Join(p.Dir, opts.OutputFile)
	return reconcile.NewJob(rel, func() (*reconcile.Artifact[string], error) {
		desired, err := Render(graph.New(ix), p, opts)
		if err != nil {
			return nil, err
		}
		current, err := os.ReadFile(mc.Abs(rel))
		if err != nil && !os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeIO, err, "read %s", rel)
		}
		exists := err == nil
		return &reconcile.Artifact[string]{
			Path:    rel,
			Desired: desired,
			Current: string(current),
			Equal:   func(a, b string) bool { return a == b },
			Describe: func(desired, current string) []string {
				if !exists {
					return []string{"file does not exist"}
				}
				return describe(desired, current)
			},
			Write: func(s string) error {
				return jsonfile.WriteFileAtomic(mc.Abs(rel), []byte(s), 0644)
			},
		}, nil
	}), nil
}

func describe(desired, current string) []string {
	want := strings.Split(desired, "\n")
	have := strings.Split(current, "\n")
	for i := range want {
		if i >= len(have) || want[i] != have[i] {
			return []string{fmt.Sprintf("first difference at line %d", i+1)}
		}
	}
	return []string{fmt.Sprintf("first difference at line %d", len(want)+1)}
}
