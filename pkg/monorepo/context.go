package monorepo

import (
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/monolink/pkg/config"
	errs "github.com/matzehuels/monolink/pkg/errors"
	"github.com/matzehuels/monolink/pkg/jsonfile"
)

// Context is the shared state of one command invocation.
type Context struct {
	// Root is the absolute monorepo root.
	Root   string
	Config config.Config
	Logger *log.Logger
	Store  jsonfile.Store
}

// NewContext returns a Context for root. A nil logger discards output and a
// nil store writes to the file system.
func NewContext(root string, cfg config.Config, logger *log.Logger, store jsonfile.Store) (*Context, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "resolve root %s", root)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if store == nil {
		store = jsonfile.NewFileStore()
	}
	return &Context{
		Root:   abs,
		Config: cfg.WithDefaults(),
		Logger: logger,
		Store:  store,
	}, nil
}

// Abs returns the absolute path of rel, a slash-separated path relative to
// the root.
func (c *Context) Abs(rel string) string {
	return filepath.Join(c.Root, filepath.FromSlash(rel))
}

// Workers returns the configured pool size.
func (c *Context) Workers() int {
	return c.Config.WithDefaults().Workers
}
