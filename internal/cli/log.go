// Package cli implements the monolink command-line interface.
//
// The commands keep derived files of a JavaScript monorepo consistent with
// the dependency graph declared by its package manifests. Every command that
// changes files only reports drift by default; --write applies the changes.
//
// # Commands
//
//   - link: sync TypeScript project references
//   - pin: pin internal dependency versions
//   - make-depend: generate a Makefile fragment for one package
//   - query internal-dependencies: print the internal dependency closure
//   - query dependents: print the direct dependents of a package
//   - lint dependency-version: check external dependency versions
//   - lint workspaces: check workspace globs against manifests on disk
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context and into the monorepo context used by the
// libraries. Reports are written to standard output; logs go to standard
// error.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs the completion of a step with its elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, rounded to the millisecond.
// Example output: "Discovered 42 packages (12ms)"
func (p *progress) done(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
