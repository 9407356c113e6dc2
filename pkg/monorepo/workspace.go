package monorepo

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	errs "github.com/matzehuels/monolink/pkg/errors"
	"github.com/matzehuels/monolink/pkg/manifest"
)

// LernaFilename is the lerna configuration file, tried before package.json.
const LernaFilename = "lerna.json"

// Declaration is the list of package globs declared by the monorepo.
type Declaration struct {
	// Source is the file the globs were read from.
	Source string
	Globs  []string
}

type lernaFile struct {
	Packages *[]string `json:"packages"`
}

type workspacesFile struct {
	Workspaces json.RawMessage `json:"workspaces"`
}

// ReadDeclaration reads the package globs of the monorepo at root. lerna.json
// is tried first; the root package.json is used when lerna.json is missing or
// does not declare packages.
func ReadDeclaration(root string) (*Declaration, error) {
	lerna, lernaErr := readLerna(root)
	if lernaErr == nil {
		return lerna, nil
	}
	ws, wsErr := readWorkspaces(root)
	if wsErr == nil {
		return ws, nil
	}
	return nil, errs.Wrap(errs.ErrCodeDiscovery, errors.Join(lernaErr, wsErr),
		"no workspace declaration in %s or %s", LernaFilename, manifest.Filename)
}

func readLerna(root string) (*Declaration, error) {
	data, err := os.ReadFile(filepath.Join(root, LernaFilename))
	if err != nil {
		return nil, err
	}
	var f lernaFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errs.Wrap(errs.ErrCodeParse, err, "%s", LernaFilename)
	}
	if f.Packages == nil {
		return nil, errs.New(errs.ErrCodeParse, "%s: missing \"packages\"", LernaFilename)
	}
	return &Declaration{Source: LernaFilename, Globs: *f.Packages}, nil
}

func readWorkspaces(root string) (*Declaration, error) {
	data, err := os.ReadFile(filepath.Join(root, manifest.Filename))
	if err != nil {
		return nil, err
	}
	var f workspacesFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errs.Wrap(errs.ErrCodeParse, err, "%s", manifest.Filename)
	}
	if len(f.Workspaces) == 0 {
		return nil, errs.New(errs.ErrCodeParse, "%s: missing \"workspaces\"", manifest.Filename)
	}

	var globs []string
	if err := json.Unmarshal(f.Workspaces, &globs); err == nil {
		return &Declaration{Source: manifest.Filename, Globs: globs}, nil
	}
	var yarn struct {
		Packages []string `json:"packages"`
	}
	if err := json.Unmarshal(f.Workspaces, &yarn); err != nil || yarn.Packages == nil {
		return nil, errs.New(errs.ErrCodeParse,
			"%s: \"workspaces\" must be an array of globs or an object with \"packages\"", manifest.Filename)
	}
	return &Declaration{Source: manifest.Filename, Globs: yarn.Packages}, nil
}
