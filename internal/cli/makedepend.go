package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/monolink/pkg/makefile"
	"github.com/matzehuels/monolink/pkg/reconcile"
)

// makeDependCommand creates the "make-depend" command.
func (c *CLI) makeDependCommand() *cobra.Command {
	var (
		opts   repoOptions
		mkOpts makefile.Options
	)

	cmd := &cobra.Command{
		Use:   "make-depend",
		Short: "Generate a Makefile fragment tracking a package's internal dependencies",
		Long: `Make-depend renders a Makefile fragment for one package listing its
manifest and the manifests of every internal package it depends on,
transitively. The fragment regenerates itself when any of them changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mc, ix, err := c.load(cmd.Context(), opts.root)
			if err != nil {
				return err
			}
			job, err := makefile.Job(mc, ix, mkOpts)
			if err != nil {
				return err
			}
			return c.reconcile(cmd, mc, opts.mode(), []reconcile.Job{job})
		},
	}

	opts.register(cmd, true)
	cmd.Flags().StringVar(&mkOpts.PackageDir, "package-directory", "", "package directory relative to the root (required)")
	cmd.Flags().StringVar(&mkOpts.OutputFile, "output-file", "", "fragment file name inside the package (default from config, Makefile.depend)")
	cmd.Flags().BoolVar(&mkOpts.CreatePackTarget, "create-pack-target", false, "add npm pack archive targets")
	_ = cmd.MarkFlagRequired("package-directory")

	return cmd
}
