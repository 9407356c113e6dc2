// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// Tree maps slash-separated paths, relative to a root, to file contents.
type Tree map[string]string

// WriteTree creates every file of tree below root.
func WriteTree(t testing.TB, root string, tree Tree) {
	t.Helper()
	paths := make([]string, 0, len(tree))
	for p := range tree {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		file := filepath.Join(root, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(file, []byte(tree[p]), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

// NewTree writes tree into a fresh temporary directory and returns it.
func NewTree(t testing.TB, tree Tree) string {
	t.Helper()
	root := t.TempDir()
	WriteTree(t, root, tree)
	return root
}

// Manifest renders a package.json with the given name, version and
// dependency groups. Groups keep the order of the deps slices.
func Manifest(name, version string, groups ...Group) string {
	var b []byte
	b = append(b, "{\n  \"name\": "...)
	b = appendJSON(b, name)
	b = append(b, ",\n  \"version\": "...)
	b = appendJSON(b, version)
	for _, g := range groups {
		b = append(b, ",\n  "...)
		b = appendJSON(b, g.Name)
		if len(g.Deps) == 0 {
			b = append(b, ": {}"...)
			continue
		}
		b = append(b, ": {"...)
		for i, d := range g.Deps {
			if i > 0 {
				b = append(b, ',')
			}
			b = append(b, "\n    "...)
			b = appendJSON(b, d[0])
			b = append(b, ": "...)
			b = appendJSON(b, d[1])
		}
		b = append(b, "\n  }"...)
	}
	b = append(b, "\n}\n"...)
	return string(b)
}

// Group is one dependency group of a fixture manifest. Each dep is a
// {name, version} pair.
type Group struct {
	Name string
	Deps [][2]string
}

// Deps returns a "dependencies" group.
func Deps(deps ...[2]string) Group { return Group{Name: "dependencies", Deps: deps} }

// DevDeps returns a "devDependencies" group.
func DevDeps(deps ...[2]string) Group { return Group{Name: "devDependencies", Deps: deps} }

// Read returns the contents of the file at rel below root.
func Read(t testing.TB, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func appendJSON(b []byte, s string) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return append(b, bytes.TrimSuffix(buf.Bytes(), []byte("\n"))...)
}
