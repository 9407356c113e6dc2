// Package monorepo discovers the internal packages of a JavaScript monorepo.
//
// A monorepo declares its packages with directory globs, either in lerna.json
// ("packages") or in the root package.json ("workspaces", as an array or as
// the yarn object form). [Build] expands those globs, loads every manifest
// with a bounded worker pool and returns an [Index] keyed by package name.
//
// # Context
//
// [Context] bundles the monorepo root, the loaded configuration, a logger and
// the file store used for writes. It is constructed once per command and
// passed to every synchronizer; the package keeps no global state.
//
// # Discovery rules
//
//   - each glob g matches g/package.json relative to the root
//   - globs starting with "!" and configured ignore patterns exclude matches
//   - any path with a node_modules segment is excluded
//   - the root directory is never a package
//   - two manifests with the same name fail with DUPLICATE_PACKAGE
//
// [LintWorkspaces] compares the declared packages with every manifest found
// on disk and reports manifests that the globs miss.
package monorepo
