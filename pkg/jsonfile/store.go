package jsonfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	errs "github.com/matzehuels/monolink/pkg/errors"
)

// Store reads and writes JSON configuration files.
type Store interface {
	// Read parses the file at path into a Document. A missing file yields an
	// error with code FILE_NOT_FOUND, invalid JSON one with PARSE_ERROR.
	Read(path string) (*Document, error)
	// Write encodes doc with [Encode] and atomically replaces the file at path.
	Write(path string, doc *Document) error
}

// FileStore implements Store on the local file system.
type FileStore struct{}

// NewFileStore creates a file system store.
func NewFileStore() *FileStore {
	return &FileStore{}
}

// Read parses the file at path.
func (s *FileStore) Read(path string) (*Document, error) {
	return ReadFile(path)
}

// Write atomically replaces the file at path with the encoded document.
func (s *FileStore) Write(path string, doc *Document) error {
	data, err := Encode(doc)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "encode %s", path)
	}
	return WriteFileAtomic(path, data, 0644)
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)

// ReadFile reads and parses the JSON object stored at path.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "read %s", path)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeIO, err, "read %s", path)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeParse, err, "parse JSON from %s", path)
	}
	return doc, nil
}

// IsNotFound reports whether err was caused by a missing file.
func IsNotFound(err error) bool {
	return errs.Is(err, errs.ErrCodeFileNotFound)
}

// WriteFileAtomic writes data to a temporary file next to path and renames
// it over path. An existing file keeps its permission bits.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", base, uuid.NewString()))

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return errs.Wrap(errs.ErrCodeIO, err, "create temporary file for %s", path)
	}
	cleanup := func(cause error) error {
		_ = f.Close()
		_ = os.Remove(tmp)
		return errs.Wrap(errs.ErrCodeIO, cause, "write %s", path)
	}

	if _, err := f.Write(data); err != nil {
		return cleanup(err)
	}
	if err := f.Sync(); err != nil {
		return cleanup(err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return errs.Wrap(errs.ErrCodeIO, err, "write %s", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errs.Wrap(errs.ErrCodeIO, err, "replace %s", path)
	}
	return nil
}
