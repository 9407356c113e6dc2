package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	errs "github.com/matzehuels/monolink/pkg/errors"
)

func TestLoadMissingFile(t *testing.T) {
	c, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(c, Default()) {
		t.Errorf("Load() = %+v, want defaults %+v", c, Default())
	}
	if c.Workers != DefaultWorkers {
		t.Errorf("Workers = %d, want %d", c.Workers, DefaultWorkers)
	}
	if c.References.ParentFile != "tsconfig.json" || c.References.PackageFile != "tsconfig.json" {
		t.Errorf("References = %+v", c.References)
	}
	if c.Makefile.OutputFile != "Makefile.depend" {
		t.Errorf("Makefile.OutputFile = %q", c.Makefile.OutputFile)
	}
}

func TestLoad(t *testing.T) {
	root := t.TempDir()
	data := `
ignore = ["examples/**"]
workers = 4

[references]
package_file = "tsconfig.build.json"

[lint]
dependencies = ["typescript", "lodash"]
scope = "@acme/"
`
	if err := os.WriteFile(filepath.Join(root, Filename), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(root)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := Config{
		Ignore:     []string{"examples/**"},
		Workers:    4,
		References: References{ParentFile: "tsconfig.json", PackageFile: "tsconfig.build.json"},
		Lint:       Lint{Dependencies: []string{"typescript", "lodash"}, Scope: "@acme/"},
		Makefile:   Makefile{OutputFile: "Makefile.depend"},
	}
	if !reflect.DeepEqual(c, want) {
		t.Errorf("Load() = %+v, want %+v", c, want)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code errs.Code
	}{
		{"syntax", `workers = `, errs.ErrCodeParse},
		{"wrong type", `workers = "many"`, errs.ErrCodeParse},
		{"unknown key", `workerz = 2`, errs.ErrCodeParse},
		{"negative workers", `workers = -1`, errs.ErrCodeInvalidInput},
		{"nested output file", "[makefile]\noutput_file = \"build/Makefile\"", errs.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), Filename)
			if got := errs.GetCode(err); got != tt.code {
				t.Errorf("GetCode() = %v, want %v (%v)", got, tt.code, err)
			}
		})
	}
}
