package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/monolink/pkg/errors"
)

// Filename is the basename of the configuration file.
const Filename = ".monolink.toml"

const (
	DefaultWorkers        = 16
	DefaultTSConfig       = "tsconfig.json"
	DefaultMakefileOutput = "Makefile.depend"
)

// Config is the decoded configuration file.
type Config struct {
	// Ignore lists doublestar patterns, relative to the root, whose
	// manifests are never treated as packages.
	Ignore []string `toml:"ignore"`

	// Workers bounds parallel manifest parsing and artifact reconciliation.
	Workers int `toml:"workers"`

	References References `toml:"references"`
	Lint       Lint       `toml:"lint"`
	Makefile   Makefile   `toml:"makefile"`
}

// References configures the project-reference synchronizer.
type References struct {
	ParentFile  string `toml:"parent_file"`
	PackageFile string `toml:"package_file"`
}

// Lint configures the lint commands.
type Lint struct {
	// Dependencies is the default list for `lint dependency-version`.
	Dependencies []string `toml:"dependencies"`
	// Scope is the default name prefix for `lint workspaces`.
	Scope string `toml:"scope"`
}

// Makefile configures make-depend.
type Makefile struct {
	OutputFile string `toml:"output_file"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{}.WithDefaults()
}

// WithDefaults returns a copy with zero fields replaced by defaults.
func (c Config) WithDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.References.ParentFile == "" {
		c.References.ParentFile = DefaultTSConfig
	}
	if c.References.PackageFile == "" {
		c.References.PackageFile = DefaultTSConfig
	}
	if c.Makefile.OutputFile == "" {
		c.Makefile.OutputFile = DefaultMakefileOutput
	}
	return c
}

// Load reads Filename from root.
func Load(root string) (Config, error) {
	return LoadFile(filepath.Join(root, Filename))
}

// LoadFile reads the configuration at path. A missing file yields [Default].
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, errs.Wrap(errs.ErrCodeIO, err, "read %s", path)
	}
	return Parse(data, path)
}

// Parse decodes TOML configuration data. Name is used in error messages.
func Parse(data []byte, name string) (Config, error) {
	var c Config
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return Config{}, errs.Wrap(errs.ErrCodeParse, err, "decode %s", name)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errs.New(errs.ErrCodeParse, "%s: unknown key %q", name, undecoded[0].String())
	}
	if c.Workers < 0 {
		return Config{}, errs.New(errs.ErrCodeInvalidInput, "%s: workers must not be negative", name)
	}
	for _, p := range []string{c.References.ParentFile, c.References.PackageFile, c.Makefile.OutputFile} {
		if p != "" && (filepath.IsAbs(p) || filepath.Base(p) != p) {
			return Config{}, errs.New(errs.ErrCodeInvalidInput, "%s: %q must be a file name", name, p)
		}
	}
	return c.WithDefaults(), nil
}
