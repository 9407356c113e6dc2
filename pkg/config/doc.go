// Package config loads the optional .monolink.toml file at the root of a
// monorepo.
//
// Every field is optional. A missing file is not an error; [Load] returns the
// defaults. Command-line flags take precedence over file values, which is the
// caller's responsibility.
//
//	ignore  = ["examples/**"]
//	workers = 16
//
//	[references]
//	parent_file  = "tsconfig.json"
//	package_file = "tsconfig.json"
//
//	[lint]
//	dependencies = ["typescript"]
//	scope        = "@acme/"
//
//	[makefile]
//	output_file = "Makefile.depend"
package config
