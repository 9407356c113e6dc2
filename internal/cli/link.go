package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/monolink/pkg/references"
)

// linkCommand creates the "link" command.
func (c *CLI) linkCommand() *cobra.Command {
	var opts repoOptions

	cmd := &cobra.Command{
		Use:   "link",
		Short: "Sync TypeScript project references with the package graph",
		Long: `Link writes a parent tsconfig.json in every directory on the way to a
package, referencing its child directories, and sets the references of each
package tsconfig.json to the internal packages it depends on.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mc, ix, err := c.load(cmd.Context(), opts.root)
			if err != nil {
				return err
			}
			jobs, err := references.Jobs(mc, ix)
			if err != nil {
				return err
			}
			return c.reconcile(cmd, mc, opts.mode(), jobs)
		},
	}

	opts.register(cmd, true)
	return cmd
}
