package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/monolink/pkg/buildinfo"
	"github.com/matzehuels/monolink/pkg/config"
	"github.com/matzehuels/monolink/pkg/monorepo"
	"github.com/matzehuels/monolink/pkg/reconcile"
)

// =============================================================================
// Constants
// =============================================================================

const appName = "monolink"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Monolink keeps monorepo configuration in sync with the package graph",
		Long:          `Monolink keeps TypeScript project references, internal dependency versions and per-package Makefiles of a JavaScript monorepo consistent with the dependency graph declared by its package manifests.`,
		Version:       buildinfo.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.linkCommand())
	root.AddCommand(c.pinCommand())
	root.AddCommand(c.makeDependCommand())
	root.AddCommand(c.queryCommand())
	root.AddCommand(c.lintCommand())

	return root
}

// =============================================================================
// Shared Options
// =============================================================================

// repoOptions are the flags shared by every command that reads the monorepo.
type repoOptions struct {
	root  string
	write bool
}

func (o *repoOptions) register(cmd *cobra.Command, writable bool) {
	cmd.Flags().StringVar(&o.root, "root", ".", "monorepo root directory")
	if writable {
		cmd.Flags().BoolVar(&o.write, "write", false, "write changes instead of reporting drift")
	}
}

func (o *repoOptions) mode() reconcile.Mode {
	if o.write {
		return reconcile.Modify
	}
	return reconcile.Lint
}

// load reads the configuration and discovers the packages of the monorepo.
func (c *CLI) load(ctx context.Context, root string) (*monorepo.Context, *monorepo.Index, error) {
	logger := loggerFromContext(ctx)

	cfg, err := config.Load(root)
	if err != nil {
		return nil, nil, err
	}
	mc, err := monorepo.NewContext(root, cfg, logger, nil)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("loaded configuration", "root", mc.Root, "workers", mc.Workers())

	prog := newProgress(logger)
	ix, err := monorepo.Build(ctx, mc)
	if err != nil {
		return nil, nil, err
	}
	prog.done("Discovered %d packages", ix.Len())
	return mc, ix, nil
}

// reconcile runs jobs and prints the report.
func (c *CLI) reconcile(cmd *cobra.Command, mc *monorepo.Context, mode reconcile.Mode, jobs []reconcile.Job) error {
	prog := newProgress(mc.Logger)
	report := reconcile.Run(cmd.Context(), mode, mc.Workers(), jobs)
	prog.done("Checked %d files", len(report.Results))

	printReport(cmd.OutOrStdout(), report)
	return report.Err()
}
