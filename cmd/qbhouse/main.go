// Command qbhouse runs the staff evaluation sheet: the local API and UI server plus
// terminal subcommands over the same data file.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"qbhouse/internal/app/server"
	"qbhouse/internal/platform/config"
	"qbhouse/internal/platform/logging"
)

type rootOptions struct {
	dataPath string
	envFile  string
	noColor  bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "qbhouse",
		Short:         "Staff evaluation sheet for QB House stores",
		Long:          "qbhouse keeps evaluation sheets and interview records in one local data file and serves the sheet UI.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if opts.envFile == "" {
				return nil
			}
			if err := godotenv.Load(opts.envFile); err != nil {
				return fmt.Errorf("load %s: %w", opts.envFile, err)
			}
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&opts.dataPath, "data", "", "data file path (overrides DATA_PATH)")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "extra .env file to load")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable coloured output")

	cmd.AddCommand(
		newServeCmd(opts),
		newListCmd(opts),
		newShowCmd(opts),
		newScoreCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
		newMigrateCmd(opts),
	)
	return cmd
}

func (o *rootOptions) config() config.Config {
	cfg := config.Load()
	if o.dataPath != "" {
		cfg.DataPath = o.dataPath
	}
	return cfg
}

// open builds the app for one subcommand. Callers must Close it.
func (o *rootOptions) open(ctx context.Context, stderr io.Writer) (*server.App, error) {
	cfg := o.config()
	logger := logging.NewTo(stderr, cfg.LogLevel, cfg.LogFormat)
	return server.New(ctx, cfg, logger)
}

func (o *rootOptions) colorize(w io.Writer) bool {
	if o.noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

func main() {
	// A missing .env is fine.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
