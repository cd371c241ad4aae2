package cli

import "github.com/spf13/cobra"

type lockOptions = resolveOptions

func newLockCommand() *cobra.Command {
	opts := lockOptions{}
	cmd := &cobra.Command{
		Use:   "lock",
		Short: "Resolve a target definition and write units.lock",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runResolve(cmd.Context(), cmd, opts)
		},
	}
	addResolveFlags(cmd, &opts)
	return cmd
}
