package graph

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/monolink/pkg/manifest"
)

// ToDOT renders the internal dependency graph in Graphviz DOT format. Nodes
// and edges are emitted in name order so the output is deterministic.
// Dependencies declared only as devDependencies are drawn dashed.
func (g *Graph) ToDOT() string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\"];\n")
	buf.WriteString("\n")

	pkgs := g.ix.Packages()
	for _, p := range pkgs {
		fmt.Fprintf(&buf, "  %q [label=%q, tooltip=%q];\n", p.Name(), p.Name()+"\n"+p.Version(), p.Dir)
	}

	buf.WriteString("\n")
	for _, p := range pkgs {
		devOnly := devOnlyTargets(g.Edges(p))
		for _, dep := range g.Direct(p) {
			if devOnly[dep.Name()] {
				fmt.Fprintf(&buf, "  %q -> %q [style=dashed];\n", p.Name(), dep.Name())
				continue
			}
			fmt.Fprintf(&buf, "  %q -> %q;\n", p.Name(), dep.Name())
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// devOnlyTargets returns the internal targets declared only as
// devDependencies.
func devOnlyTargets(edges []Edge) map[string]bool {
	dev := make(map[string]bool)
	runtime := make(map[string]bool)
	for _, e := range edges {
		if !e.Internal {
			continue
		}
		if e.Group == manifest.DevDependencies {
			dev[e.To] = true
		} else {
			runtime[e.To] = true
		}
	}
	for name := range runtime {
		delete(dev, name)
	}
	return dev
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
