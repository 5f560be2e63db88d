package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"qchemd/internal/registry"
	"qchemd/pkg/types"
)

func newMoleculesCmd(opts *Options) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "molecules",
		Short: "List HDF5 molecules in a directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = opts.cfg.MoleculesDir
			}
			if dir == "" {
				dir = opts.WorkDir
			}
			if dir == "" {
				return fmt.Errorf("molecules requires --dir, --work-dir or molecules_dir in the config")
			}
			list, err := registry.LoadDir(dir)
			if err != nil {
				return err
			}
			if list == nil {
				list = []types.MoleculeFile{}
			}
			return writeOutput(cmd.OutOrStdout(), opts.Output, types.MoleculesResponse{Molecules: list})
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Directory to scan (defaults to molecules_dir, then --work-dir)")
	return cmd
}
