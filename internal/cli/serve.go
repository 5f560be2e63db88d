package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"qchemd/internal/httpapi"
)

func newServeCmd(opts *Options) *cobra.Command {
	var (
		addr         string
		moleculesDir string
		corsOrigins  string
		runTimeout   time.Duration
		maxBody      int64
	)
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Serve the driver registry over HTTP",
		Example: "  qchemd serve --addr :8080 --molecules-dir ~/molecules --work-dir ~/molecules",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			cfg := opts.cfg
			if !f.Changed("addr") && cfg.Addr != "" {
				addr = cfg.Addr
			}
			if !f.Changed("molecules-dir") && cfg.MoleculesDir != "" {
				moleculesDir = cfg.MoleculesDir
			}
			origins := splitCSV(corsOrigins)
			if !f.Changed("cors-origins") && len(cfg.CORSAllowedOrigins) > 0 {
				origins = cfg.CORSAllowedOrigins
			}
			if moleculesDir == "" {
				moleculesDir = opts.WorkDir
			}

			httpapi.SetCORSOptions(cfg.CORSEnabled || len(origins) > 0, origins, nil, nil)
			httpapi.SetRunTimeout(runTimeout)
			httpapi.SetMaxBodyBytes(maxBody)
			httpapi.SetBaseContext(cmd.Context())

			svc := httpapi.NewService(opts.registry(true), moleculesDir)
			srv := &http.Server{
				Addr:              addr,
				Handler:           httpapi.NewMux(svc),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return serve(cmd.Context(), srv, opts, moleculesDir)
		},
	}
	f := cmd.Flags()
	f.StringVar(&addr, "addr", envStr("QCHEMD_ADDR", ":8080"), "HTTP listen address, e.g. :8080")
	f.StringVar(&moleculesDir, "molecules-dir", "", "Directory listed by GET /molecules (defaults to --work-dir)")
	f.StringVar(&corsOrigins, "cors-origins", "", "Comma-separated allowed CORS origins; enables CORS when set")
	f.DurationVar(&runTimeout, "run-timeout", 0, "Per-run timeout (0 disables)")
	f.Int64Var(&maxBody, "max-body-bytes", 1<<20, "Maximum request body size")
	return cmd
}

// serve runs srv until ctx is canceled, then shuts down gracefully.
func serve(ctx context.Context, srv *http.Server, opts *Options, moleculesDir string) error {
	errCh := make(chan error, 1)
	go func() {
		opts.logger.Info().Str("addr", srv.Addr).Str("work_dir", opts.WorkDir).Str("molecules_dir", moleculesDir).Msg("qchemd listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		opts.logger.Warn().Err(err).Msg("graceful shutdown error")
		return err
	}
	return nil
}
