package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ValidatePackageName validates a package name read from a manifest.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - Valid UTF-8 only
//   - No control characters or null bytes
//   - No "." or ".." path segments, empty segments or backslashes
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidManifest, "package name cannot be empty")
	}

	if !utf8.ValidString(name) {
		return New(ErrCodeInvalidEncoding, "package name is not valid UTF-8: %q", name)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidEncoding, "package name contains invalid control characters: %q", name)
		}
	}

	for _, pattern := range []string{"//", "\\"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidManifest, "package name contains invalid characters: %q", pattern)
		}
	}

	for _, seg := range strings.Split(name, "/") {
		if seg == "." || seg == ".." {
			return New(ErrCodeInvalidManifest, "package name contains a relative path segment: %q", name)
		}
	}

	return nil
}

// ValidatePathEncoding checks that a path can be written into a JSON
// configuration file and read back unchanged by the TypeScript compiler.
//
// Validation rules:
//   - Path cannot be empty
//   - Valid UTF-8 only
//   - No null bytes or control characters
//   - No backslashes (paths are always written with forward slashes)
func ValidatePathEncoding(path string) error {
	if path == "" {
		return New(ErrCodeInvalidEncoding, "path cannot be empty")
	}

	if !utf8.ValidString(path) {
		return New(ErrCodeInvalidEncoding, "path cannot be expressed as UTF-8: %q", path)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidEncoding, "path contains invalid characters: %q", path)
		}
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidEncoding, "path cannot contain backslashes: %q", path)
	}

	return nil
}
