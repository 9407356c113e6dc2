package cli

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/monolink/pkg/errors"
)

// Exit codes returned by [ExitCode].
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitInterrupted = 130 // Standard shell convention for SIGINT
)

// Execute runs the monolink CLI with args, logging to stderr and writing
// reports to stdout.
//
// Logging:
//   - Default: info level
//   - With --verbose (-v): debug level
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var verbose bool

	c := New(stderr, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	originalPreRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(LogDebug)
		}
		if originalPreRun != nil {
			return originalPreRun(cmd, args)
		}
		return nil
	}

	return root.ExecuteContext(ctx)
}

// ExitCode maps the error returned by [Execute] to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	default:
		return ExitFailure
	}
}

// PrintError writes err to w unless the run was interrupted or err only
// repeats drift and violations that the command already reported.
func PrintError(w io.Writer, err error) {
	if err == nil || ExitCode(err) == ExitInterrupted || errs.IsConsistency(err) {
		return
	}
	printError(w, "%s", err)
}
