package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/monolink/pkg/pin"
)

// pinCommand creates the "pin" command.
func (c *CLI) pinCommand() *cobra.Command {
	var opts repoOptions

	cmd := &cobra.Command{
		Use:   "pin",
		Short: "Pin internal dependencies to the versions their packages declare",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mc, ix, err := c.load(cmd.Context(), opts.root)
			if err != nil {
				return err
			}
			jobs, err := pin.Jobs(mc, ix)
			if err != nil {
				return err
			}
			return c.reconcile(cmd, mc, opts.mode(), jobs)
		},
	}

	opts.register(cmd, true)
	return cmd
}
