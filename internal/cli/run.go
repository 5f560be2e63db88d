package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"qchemd/internal/molecule"
)

func newRunCmd(opts *Options) *cobra.Command {
	var save string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a driver and print the resulting molecule",
		Long: "Run a driver and print the resulting molecule.\n\n" +
			"Without a subcommand the driver and its options come from the\n" +
			"driver section of --config.",
		Example: "  qchemd run pyquante --atoms 'H 0 0 0; H 0 0 0.735' --basis 6-31g\n" +
			"  qchemd run hdf5 --input h2.hdf5 --work-dir ~/molecules\n" +
			"  qchemd run --config run.yaml",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec := opts.cfg.Driver
			if spec.Name == "" {
				return fmt.Errorf("run requires a subcommand (pyquante|hdf5) or a config file with a driver section")
			}
			return runDriver(cmd, opts, spec.Name, spec.Options, save)
		},
	}
	cmd.PersistentFlags().StringVar(&save, "save", "", "Also write the molecule to this HDF5 file")
	cmd.AddCommand(newRunPyQuanteCmd(opts, &save), newRunHDF5Cmd(opts, &save))
	return cmd
}

func newRunPyQuanteCmd(opts *Options, save *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pyquante",
		Aliases: []string{"PYQUANTE"},
		Short:   "Compute integrals with PyQuante2",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDriver(cmd, opts, "PYQUANTE", changedOptions(cmd.Flags(), pyquanteFlags), *save)
		},
	}
	f := cmd.Flags()
	f.StringSlice("atoms", nil, "Atoms as 'Sym x y z'; repeat the flag or separate with ';'")
	f.String("units", "Angstrom", "Coordinate units: Angstrom|Bohr")
	f.Int("charge", 0, "Molecular charge")
	f.Int("multiplicity", 1, "Spin multiplicity")
	f.String("basis", "sto3g", "Basis set: sto3g|6-31g|6-31g**")
	f.String("hf-method", "rhf", "Hartree-Fock method: rhf|rohf|uhf")
	f.Float64("tol", 1e-8, "SCF convergence tolerance")
	f.Int("maxiters", 100, "Maximum SCF iterations")
	return cmd
}

func newRunHDF5Cmd(opts *Options, save *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "hdf5",
		Aliases: []string{"HDF5"},
		Short:   "Load a molecule saved to an HDF5 file",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDriver(cmd, opts, "HDF5", changedOptions(cmd.Flags(), hdf5Flags), *save)
		},
	}
	cmd.Flags().String("input", "molecule.hdf5", "HDF5 file, relative to --work-dir")
	return cmd
}

// flag name -> driver option name
var (
	pyquanteFlags = map[string]string{
		"atoms":        "atoms",
		"units":        "units",
		"charge":       "charge",
		"multiplicity": "multiplicity",
		"basis":        "basis",
		"hf-method":    "hf_method",
		"tol":          "tol",
		"maxiters":     "maxiters",
	}
	hdf5Flags = map[string]string{"input": "hdf5_input"}
)

// changedOptions collects only the flags the user set, so the driver's own
// defaults apply to the rest.
func changedOptions(fs *pflag.FlagSet, names map[string]string) map[string]any {
	out := map[string]any{}
	fs.Visit(func(f *pflag.Flag) {
		key, ok := names[f.Name]
		if !ok {
			return
		}
		switch f.Value.Type() {
		case "stringSlice":
			v, _ := fs.GetStringSlice(f.Name)
			out[key] = v
		case "int":
			v, _ := fs.GetInt(f.Name)
			out[key] = v
		case "float64":
			v, _ := fs.GetFloat64(f.Name)
			out[key] = v
		default:
			out[key] = f.Value.String()
		}
	})
	return out
}

func runDriver(cmd *cobra.Command, opts *Options, name string, options map[string]any, save string) error {
	m, err := opts.registry(false).Run(cmd.Context(), name, options)
	if err != nil {
		return err
	}
	if save != "" {
		if err := m.Save(save); err != nil {
			return fmt.Errorf("save molecule: %w", err)
		}
		opts.logger.Info().Str("path", save).Msg("molecule saved")
	}
	return writeOutput(cmd.OutOrStdout(), opts.Output, moleculeView(m))
}

// moleculeView is the printed form of a molecule: the summary line plus
// every field.
func moleculeView(m *molecule.QMolecule) map[string]any {
	return map[string]any{
		"summary":  m.Summary(),
		"molecule": m,
	}
}
