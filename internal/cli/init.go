package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/spf13/cobra"

	"qchemd/internal/config"
	"qchemd/internal/drivers"
)

// ErrAborted is returned when the user interrupts an interactive prompt.
var ErrAborted = errors.New("aborted")

// prompter asks the questions of `qchemd init`.
type prompter interface {
	Input(message, def string, validate func(string) error) (string, error)
	Select(message string, options []string, def string) (string, error)
}

type surveyPrompter struct{}

func (surveyPrompter) Input(message, def string, validate func(string) error) (string, error) {
	var out string
	var opts []survey.AskOpt
	if validate != nil {
		opts = append(opts, survey.WithValidator(func(ans any) error {
			s, _ := ans.(string)
			return validate(s)
		}))
	}
	if err := survey.AskOne(&survey.Input{Message: message, Default: def}, &out, opts...); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (surveyPrompter) Select(message string, options []string, def string) (string, error) {
	var out string
	if err := survey.AskOne(&survey.Select{Message: message, Options: options, Default: def}, &out); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

func newInitCmd(opts *Options, p prompter) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively write a run config",
		Long: "Interactively write a run config for `qchemd run --config`.\n\n" +
			"The file format follows the extension of --file.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if p == nil {
				p = surveyPrompter{}
			}
			cfg, err := askConfig(p)
			if err != nil {
				return err
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "file", "qchemd.yaml", "Config file to write (.yaml, .json or .toml)")
	return cmd
}

// askConfig walks the user through a driver section.
func askConfig(p prompter) (config.Config, error) {
	var cfg config.Config
	name, err := p.Select("Driver:", []string{drivers.PyQuanteDriverName, drivers.HDF5DriverName}, drivers.PyQuanteDriverName)
	if err != nil {
		return cfg, err
	}
	cfg.Driver.Name = name
	cfg.Driver.Options = map[string]any{}
	if name == drivers.HDF5DriverName {
		in, err := p.Input("HDF5 file:", drivers.DefaultHDF5Input, nonEmpty)
		if err != nil {
			return cfg, err
		}
		cfg.Driver.Options["hdf5_input"] = in
		wd, err := p.Input("Work directory (empty for the current directory):", "", nil)
		if err != nil {
			return cfg, err
		}
		cfg.WorkDir = strings.TrimSpace(wd)
		return cfg, nil
	}

	o := cfg.Driver.Options
	steps := []func() error{
		func() (err error) {
			o["atoms"], err = p.Input("Atoms (';' separated):", drivers.DefaultAtoms, nonEmpty)
			return err
		},
		func() (err error) {
			o["units"], err = p.Select("Units:", []string{string(drivers.UnitsAngstrom), string(drivers.UnitsBohr)}, string(drivers.UnitsAngstrom))
			return err
		},
		func() error { return askInt(p, o, "charge", "Charge:", 0, nil) },
		func() error { return askInt(p, o, "multiplicity", "Multiplicity:", 1, atLeast(1)) },
		func() (err error) {
			o["basis"], err = p.Select("Basis set:", []string{string(drivers.BasisSTO3G), string(drivers.Basis631G), string(drivers.Basis631GSS)}, string(drivers.BasisSTO3G))
			return err
		},
		func() (err error) {
			o["hf_method"], err = p.Select("Hartree-Fock method:", []string{string(drivers.HFMethodRHF), string(drivers.HFMethodROHF), string(drivers.HFMethodUHF)}, string(drivers.HFMethodRHF))
			return err
		},
		func() error {
			s, err := p.Input("SCF tolerance:", "1e-08", positiveFloat)
			if err != nil {
				return err
			}
			o["tol"], _ = strconv.ParseFloat(strings.TrimSpace(s), 64)
			return nil
		},
		func() error { return askInt(p, o, "maxiters", "Max SCF iterations:", 100, atLeast(1)) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

func askInt(p prompter, o map[string]any, key, message string, def int, check func(int) error) error {
	s, err := p.Input(message, strconv.Itoa(def), func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("not an integer: %q", s)
		}
		if check != nil {
			return check(n)
		}
		return nil
	})
	if err != nil {
		return err
	}
	o[key], _ = strconv.Atoi(strings.TrimSpace(s))
	return nil
}

func nonEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("value required")
	}
	return nil
}

func positiveFloat(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 {
		return fmt.Errorf("must be a positive number")
	}
	return nil
}

func atLeast(lo int) func(int) error {
	return func(n int) error {
		if n < lo {
			return fmt.Errorf("must be >= %d", lo)
		}
		return nil
	}
}
