// Package makefile renders make-depend output: a Makefile fragment that
// tracks the manifests of a package and of every internal package it
// depends on, transitively.
//
// The fragment is meant to be included from a Makefile at the monorepo root,
// so every path in it is relative to the root. It regenerates itself when any
// tracked manifest changes. With pack targets enabled it also describes the
// `npm pack` archive of the package and copies the archive of each internal
// dependency into the package's .internal-npm-dependencies directory.
package makefile
