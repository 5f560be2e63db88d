package cli

import (
	"github.com/spf13/cobra"
)

func newSchemaCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:       "schema <driver>",
		Short:     "Print the JSON schema of a driver's options",
		Example:   "  qchemd schema pyquante",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"pyquante", "hdf5"},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.registry(false).Schema(args[0])
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), opts.Output, s)
		},
	}
}
