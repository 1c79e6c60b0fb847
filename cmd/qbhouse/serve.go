package main

import (
	"github.com/spf13/cobra"

	"qbhouse/internal/app/server"
	"qbhouse/internal/platform/logging"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the sheet UI and JSON API on a local address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := opts.config()
			if addr != "" {
				cfg.Addr = addr
			}
			logger := logging.New(cfg.LogLevel, cfg.LogFormat)
			app, err := server.New(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer app.Close()
			return app.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides APP_ADDR)")
	return cmd
}
