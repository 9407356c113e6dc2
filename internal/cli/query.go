package cli

import (
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/monolink/pkg/errors"
	"github.com/matzehuels/monolink/pkg/graph"
	"github.com/matzehuels/monolink/pkg/query"
)

// queryCommand creates the "query" command.
func (c *CLI) queryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query the internal dependency graph",
	}

	cmd.AddCommand(c.queryInternalDependenciesCommand())
	cmd.AddCommand(c.queryDependentsCommand())

	return cmd
}

// queryInternalDependenciesCommand creates the "query internal-dependencies" subcommand.
func (c *CLI) queryInternalDependenciesCommand() *cobra.Command {
	var (
		opts   repoOptions
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "internal-dependencies",
		Short: "Print every package with its transitive internal dependencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := query.ParseFormat(format)
			if err != nil {
				return err
			}
			mc, ix, err := c.load(cmd.Context(), opts.root)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			switch output {
			case "json":
				data, err := query.MarshalJSON(query.InternalDependencies(ix, f))
				if err != nil {
					return err
				}
				_, err = w.Write(data)
				return err
			case "dot":
				_, err := w.Write([]byte(graph.New(ix).ToDOT()))
				return err
			case "svg":
				prog := newProgress(mc.Logger)
				svg, err := graph.RenderSVG(cmd.Context(), graph.New(ix).ToDOT())
				if err != nil {
					return errs.Wrap(errs.ErrCodeInternal, err, "render dependency graph")
				}
				prog.done("Rendered %d packages", ix.Len())
				_, err = w.Write(svg)
				return err
			default:
				return errs.New(errs.ErrCodeInvalidInput, "unknown output %q (want json, dot or svg)", output)
			}
		},
	}

	opts.register(cmd, false)
	cmd.Flags().StringVar(&format, "format", string(query.FormatName), "identify packages by name or path")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "output format: json, dot, svg")

	return cmd
}

// queryDependentsCommand creates the "query dependents" subcommand.
func (c *CLI) queryDependentsCommand() *cobra.Command {
	var (
		opts   repoOptions
		format string
	)

	cmd := &cobra.Command{
		Use:   "dependents PACKAGE",
		Short: "Print the packages that depend directly on PACKAGE",
		Long: `Dependents prints a JSON array of the internal packages that declare PACKAGE
in any dependency group. PACKAGE is a name, or a directory with --format path.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := query.ParseFormat(format)
			if err != nil {
				return err
			}
			_, ix, err := c.load(cmd.Context(), opts.root)
			if err != nil {
				return err
			}
			deps, err := query.Dependents(ix, args[0], f)
			if err != nil {
				return err
			}
			data, err := query.MarshalJSON(deps)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	opts.register(cmd, false)
	cmd.Flags().StringVar(&format, "format", string(query.FormatName), "identify packages by name or path")

	return cmd
}
