// Package cli builds the qchemd command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"qchemd/internal/config"
	"qchemd/internal/drivers"
	"qchemd/internal/httpapi"
)

// Options are the persistent flags shared by every subcommand.
type Options struct {
	LogLevel   string
	Output     string
	ConfigPath string
	WorkDir    string
	Python     string

	cfg    config.Config
	logger zerolog.Logger
}

// Execute runs the root command against os.Args. SIGINT and SIGTERM cancel
// the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	root := NewRootCmd(os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return err
	}
	return nil
}

// NewRootCmd constructs the command tree writing results to out and logs to
// errOut.
func NewRootCmd(out, errOut io.Writer) *cobra.Command {
	opts := &Options{}
	root := &cobra.Command{
		Use:           "qchemd",
		Short:         "Quantum chemistry drivers and variational forms",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&opts.LogLevel, "log-level", envStr("QCHEMD_LOG_LEVEL", "info"), "Log level: debug|info|warn|error (defaults QCHEMD_LOG_LEVEL or info)")
	pf.StringVarP(&opts.Output, "output", "o", "json", "Output format: json|yaml")
	pf.StringVar(&opts.ConfigPath, "config", "", "Config file (.yaml, .json or .toml)")
	pf.StringVar(&opts.WorkDir, "work-dir", envStr("QCHEMD_WORK_DIR", ""), "Directory relative HDF5 inputs are resolved against")
	pf.StringVar(&opts.Python, "python", "", "Python interpreter with pyquante2 (defaults QCHEMD_PYTHON or python3)")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return opts.setup(cmd)
	}

	root.AddCommand(
		newRunCmd(opts),
		newServeCmd(opts),
		newSchemaCmd(opts),
		newMoleculesCmd(opts),
		newAnsatzCmd(),
		newInitCmd(opts, nil),
	)
	return root
}

// setup loads the config file, lets explicit flags override it, and
// installs the logger.
func (o *Options) setup(cmd *cobra.Command) error {
	if o.ConfigPath != "" {
		cfg, err := config.Load(o.ConfigPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		o.cfg = cfg
	}
	flags := cmd.Flags()
	if !flags.Changed("log-level") && o.cfg.LogLevel != "" {
		o.LogLevel = o.cfg.LogLevel
	}
	if !flags.Changed("work-dir") && o.cfg.WorkDir != "" {
		o.WorkDir = o.cfg.WorkDir
	}
	if !flags.Changed("python") && o.cfg.Python != "" {
		o.Python = o.cfg.Python
	}
	switch o.Output {
	case "json", "yaml":
	default:
		return fmt.Errorf("unsupported output format %q: use json or yaml", o.Output)
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(o.LogLevel))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	o.logger = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), NoColor: true}).
		Level(lvl).With().Timestamp().Logger()
	drivers.SetLogger(o.logger)
	httpapi.SetLogger(o.logger)
	return nil
}

// registry builds a driver registry from the resolved options. confine
// keeps HDF5 inputs inside the work directory.
func (o *Options) registry(confine bool) *drivers.Registry {
	return drivers.NewRegistry(drivers.RegistryConfig{WorkDir: o.WorkDir, Python: o.Python, ConfineToWorkDir: confine})
}
