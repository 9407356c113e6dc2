// Package versions lints external dependency versions across a monorepo.
//
// For each external dependency, the linter collects every (package, version)
// usage over the four dependency groups and takes the most common version as
// expected. Every package using another version is a [Violation]. A
// dependency with a single distinct version is consistent and reports
// nothing. Versions are compared as exact strings; ranges are never resolved.
package versions
