// Package manifest models the package.json files of a monorepo.
//
// A [Manifest] exposes the fields monolink reasons about (name, version and
// the four dependency groups) as typed accessors over a
// [jsonfile.Document]. Every other field is kept opaque, so rewriting a
// manifest changes only the dependency versions that were updated.
//
// Parsing enforces the manifest invariants: name and version are strings,
// each dependency group present is an object, and every declared dependency
// version is a string. Violations carry the INVALID_MANIFEST and
// INVALID_VERSION codes from [errors].
//
// A [Package] pairs a manifest with its directory relative to the monorepo
// root.
package manifest
