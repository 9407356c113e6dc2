// Package query answers read-only questions about the internal dependency
// graph of a monorepo.
package query

import (
	"bytes"
	"encoding/json"
	"fmt"

	errs "github.com/matzehuels/monolink/pkg/errors"
	"github.com/matzehuels/monolink/pkg/graph"
	"github.com/matzehuels/monolink/pkg/manifest"
	"github.com/matzehuels/monolink/pkg/monorepo"
)

// Format selects how packages are identified in query results.
type Format string

const (
	// FormatName identifies packages by name.
	FormatName Format = "name"
	// FormatPath identifies packages by directory relative to the root.
	FormatPath Format = "path"
)

// ParseFormat validates a format flag value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatName, FormatPath:
		return f, nil
	default:
		return "", errs.New(errs.ErrCodeInvalidInput, "unknown format %q (want %q or %q)", s, FormatName, FormatPath)
	}
}

func (f Format) key(p *manifest.Package) string {
	if f == FormatPath {
		return p.Dir
	}
	return p.Name()
}

// InternalDependencies maps every package to its exclusive transitive
// internal dependencies. Values are sorted by name, rendered in format f, and
// never nil.
func InternalDependencies(ix *monorepo.Index, f Format) map[string][]string {
	g := graph.New(ix)
	out := make(map[string][]string, ix.Len())
	for _, p := range ix.Packages() {
		deps := g.Transitive(p, false)
		values := make([]string, len(deps))
		for i, dep := range deps {
			values[i] = f.key(dep)
		}
		out[f.key(p)] = values
	}
	return out
}

// Dependents returns the packages that depend directly on the package
// identified by id, which is a name or a directory depending on f. Values are
// sorted by name, rendered in format f, and never nil.
func Dependents(ix *monorepo.Index, id string, f Format) ([]string, error) {
	var (
		p  *manifest.Package
		ok bool
	)
	if f == FormatPath {
		p, ok = ix.PackageByDir(id)
	} else {
		p, ok = ix.Package(id)
	}
	if !ok {
		return nil, errs.New(errs.ErrCodePackageNotFound, "no internal package %q", id)
	}

	deps := graph.New(ix).Dependents(p)
	values := make([]string, len(deps))
	for i, dep := range deps {
		values[i] = f.key(dep)
	}
	return values, nil
}

// MarshalJSON renders a query result as indented JSON with sorted keys and a
// trailing newline.
func MarshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode query result: %w", err)
	}
	return buf.Bytes(), nil
}
