package pin

import (
	"fmt"
	"strings"

	errs "github.com/matzehuels/monolink/pkg/errors"
	"github.com/matzehuels/monolink/pkg/manifest"
	"github.com/matzehuels/monolink/pkg/monorepo"
	"github.com/matzehuels/monolink/pkg/reconcile"
)

var protocols = []string{"workspace:", "file:", "link:", "portal:", "npm:"}

// Unpinned is an internal dependency declared with the wrong version.
type Unpinned struct {
	Name     string
	Group    manifest.DependencyGroup
	Expected string
	Actual   string
}

func (u Unpinned) String() string {
	return fmt.Sprintf("dependency: %s\texpected: %s\tgot: %s", u.Name, u.Expected, u.Actual)
}

// Plan is the pinned manifest of one package.
type Plan struct {
	Package  *manifest.Package
	Desired  *manifest.Manifest
	Unpinned []Unpinned
}

// Desired returns the pinned manifest of p.
func Desired(ix *monorepo.Index, p *manifest.Package) (*Plan, error) {
	plan := &Plan{Package: p, Desired: p.Manifest.Clone()}
	for _, d := range p.Manifest.AllDependencies() {
		dep, ok := ix.Package(d.Name)
		if !ok || d.Version == dep.Version() {
			continue
		}
		if protocol := protocolOf(d.Version); protocol != "" {
			return nil, errs.New(errs.ErrCodeUnpinnableVersion,
				"%s: %s %q uses the %q protocol and cannot be pinned to %s",
				p.ManifestPath(), d.Group, d.Name, protocol, dep.Version())
		}
		if err := plan.Desired.SetDependencyVersion(d.Group, d.Name, dep.Version()); err != nil {
			return nil, err
		}
		plan.Unpinned = append(plan.Unpinned, Unpinned{
			Name:     d.Name,
			Group:    d.Group,
			Expected: dep.Version(),
			Actual:   d.Version,
		})
	}
	return plan, nil
}

func protocolOf(version string) string {
	for _, p := range protocols {
		if strings.HasPrefix(version, p) {
			return p
		}
	}
	return ""
}

// Plans computes the pinned manifest of every package.
func Plans(ix *monorepo.Index) ([]*Plan, error) {
	pkgs := ix.Packages()
	plans := make([]*Plan, 0, len(pkgs))
	for _, p := range pkgs {
		plan, err := Desired(ix, p)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

// Jobs returns a reconciliation job per package manifest.
func Jobs(mc *monorepo.Context, ix *monorepo.Index) ([]reconcile.Job, error) {
	plans, err := Plans(ix)
	if err != nil {
		return nil, err
	}
	jobs := make([]reconcile.Job, len(plans))
	for i, plan := range plans {
		jobs[i] = reconcile.NewJob(plan.Package.ManifestPath(), func() (*reconcile.Artifact[*manifest.Manifest], error) {
			return &reconcile.Artifact[*manifest.Manifest]{
				Path:    plan.Package.ManifestPath(),
				Desired: plan.Desired,
				Current: plan.Package.Manifest,
				Equal: func(a, b *manifest.Manifest) bool {
					return a.EqualDependencies(b)
				},
				Describe: func(_, _ *manifest.Manifest) []string {
					lines := make([]string, len(plan.Unpinned))
					for i, u := range plan.Unpinned {
						lines[i] = u.String()
					}
					return lines
				},
				Write: func(m *manifest.Manifest) error {
					return plan.Package.WithManifest(m).Save(mc.Store, mc.Root)
				},
			}, nil
		})
	}
	return jobs, nil
}
