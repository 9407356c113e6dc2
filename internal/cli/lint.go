package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/monolink/pkg/monorepo"
	"github.com/matzehuels/monolink/pkg/versions"
)

// lintCommand creates the "lint" command.
func (c *CLI) lintCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Check monorepo consistency without changing files",
	}

	cmd.AddCommand(c.lintDependencyVersionCommand())
	cmd.AddCommand(c.lintWorkspacesCommand())

	return cmd
}

// lintDependencyVersionCommand creates the "lint dependency-version" subcommand.
func (c *CLI) lintDependencyVersionCommand() *cobra.Command {
	var opts repoOptions

	cmd := &cobra.Command{
		Use:   "dependency-version [DEPENDENCY...]",
		Short: "Check that every package uses the same version of external dependencies",
		Long: `Dependency-version reports packages whose version of an external dependency
differs from the version most packages use. Without arguments it checks the
dependencies listed in the configuration file, or every external dependency.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mc, ix, err := c.load(cmd.Context(), opts.root)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			deps := args
			if len(deps) == 0 {
				deps = mc.Config.Lint.Dependencies
			}
			if len(deps) == 0 {
				deps = versions.External(ix)
				printInfo(w, "No dependencies given, checking all %d external dependencies", len(deps))
			}

			results := versions.LintAll(ix, deps)
			for _, r := range results {
				if r.Consistent() {
					mc.Logger.Debug("consistent dependency", "dependency", r.Dependency, "version", r.Expected)
					continue
				}
				printTitle(w, "Linting versions of dependency %q", r.Dependency)
				for _, v := range r.Violations {
					printDetail(w, "%s", v)
				}
			}

			err = versions.Err(results)
			if err == nil {
				printSuccess(w, "%d dependencies use consistent versions", len(results))
			}
			return err
		},
	}

	opts.register(cmd, false)
	return cmd
}

// lintWorkspacesCommand creates the "lint workspaces" subcommand.
func (c *CLI) lintWorkspacesCommand() *cobra.Command {
	var (
		opts  repoOptions
		scope string
	)

	cmd := &cobra.Command{
		Use:   "workspaces",
		Short: "Check that the workspace globs match every package on disk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mc, ix, err := c.load(cmd.Context(), opts.root)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("scope") {
				scope = mc.Config.Lint.Scope
			}

			report, err := monorepo.LintWorkspaces(cmd.Context(), mc, ix, scope)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, name := range report.Undeclared {
				printWarning(w, "%s is not matched by any workspace glob", name)
			}
			for _, name := range report.Unlisted {
				printWarning(w, "%s is declared but not found on disk", name)
			}
			if report.OK() {
				printSuccess(w, "Workspace globs match all %d packages", ix.Len())
			}
			return report.Err()
		},
	}

	opts.register(cmd, false)
	cmd.Flags().StringVar(&scope, "scope", "", "only compare packages whose name starts with this prefix")

	return cmd
}
