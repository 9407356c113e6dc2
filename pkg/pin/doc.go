// Package pin pins every internal dependency of a monorepo to the exact
// version its package declares.
//
// For each package, the desired manifest is a clone of the current one with
// each dependency on an internal package rewritten to that package's own
// version. Only dependency values change: key order, formatting and unrelated
// fields survive the rewrite, so an already pinned manifest is written back
// byte for byte.
//
// Values using a package-manager protocol ("workspace:", "file:", "link:",
// "portal:", "npm:") do not name a version and cannot be pinned. [Jobs]
// computes every desired manifest before any job runs and fails with
// UNPINNABLE_VERSION when it meets one, so nothing is written.
package pin
