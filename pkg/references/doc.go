// Package references keeps TypeScript project references in sync with the
// layout and dependency graph of a monorepo.
//
// Two kinds of configuration files are maintained:
//
//   - a parent file in every directory that contains packages, including
//     the root, referencing each immediate child directory on the way to a
//     package
//   - a package file in every package directory, referencing the internal
//     packages it depends on directly, as paths relative to itself
//
// When a package directory also contains nested packages, its package file
// carries the child references as well, so the tree of references from the
// root reaches every package.
//
// References are sorted so regenerated files are stable under version
// control. Every other field of a configuration file is kept as written.
package references
