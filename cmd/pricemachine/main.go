// Command pricemachine aggregates "*price*.csv" files into one list ranked by
// price per kilogram, and serves it through a console loop, an HTTP server or
// a one-shot report export.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/pricemachine/internal/config"
	"github.com/JonMunkholm/pricemachine/internal/core"
	"github.com/JonMunkholm/pricemachine/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if core.IsUserFacing(err) {
			fmt.Fprintln(os.Stderr, core.FormatUserError(err))
		}
		os.Exit(1)
	}
}

// app is the state shared by every subcommand once the price list is loaded.
type app struct {
	cfg     *config.Config
	service *core.Service
	cleanup func()

	// flags
	dir      string
	encoding string
	output   string
	format   string
	envFile  string
}

func newRootCmd() *cobra.Command {
	a := &app{cleanup: func() {}}

	root := &cobra.Command{
		Use:   "pricemachine",
		Short: "Rank price lists by price per kilogram",
		Long: `pricemachine reads every file whose name contains "price" and ends in
.csv from one directory, recognizes the name, price and weight columns
under their usual Russian and English headings, and ranks all rows by
price per kilogram.

Without a subcommand it starts the interactive search.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.cleanup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSearch(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.dir, "dir", "", "directory with price lists (default: PRICES_DIR or the executable's directory)")
	flags.StringVar(&a.encoding, "encoding", "", "text encoding of the files: utf-8, windows-1251, koi8-r")
	flags.StringVarP(&a.output, "output", "o", "", "report file (default: EXPORT_OUTPUT or output.html)")
	flags.StringVarP(&a.format, "format", "f", "", "report format: html, csv, xlsx, json")
	flags.StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before the environment is read")

	root.AddCommand(
		newSearchCmd(a),
		newServeCmd(a),
		newExportCmd(a),
		newReportCmd(a),
	)
	return root
}

// setup loads configuration, configures logging and performs the first load.
func (a *app) setup(cmd *cobra.Command) error {
	// Overload so the file wins over stale shell variables
	envErr := godotenv.Overload(a.envFile)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	a.cfg = cfg

	// Console output owns stdout, so logs go to stderr there
	var logOut io.Writer = os.Stderr
	if cmd.Name() == "serve" {
		logOut = os.Stdout
	}
	a.cleanup = logging.Setup(logOut, cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.SeqURL)

	if envErr != nil {
		slog.Debug("no .env file loaded, using environment variables", "file", a.envFile)
	} else {
		slog.Debug("loaded .env file", "file", a.envFile)
	}
	slog.Debug("configuration loaded", "config", cfg.String())

	dir, err := core.ResolveDir(cfg.Prices.Dir)
	if err != nil {
		return err
	}

	opts := cfg.LoadOptions()
	opts.Logger = slog.Default()
	a.service = core.NewService(dir, opts)

	if _, err := a.service.Load(cmd.Context()); err != nil {
		return err
	}
	return nil
}

// applyFlags lets explicitly set flags override the environment.
func (a *app) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.Prices.Dir = a.dir
	}
	if flags.Changed("encoding") {
		cfg.Prices.Encoding = a.encoding
	}
	if flags.Changed("output") {
		cfg.Export.Output = a.output
	}
	if flags.Changed("format") {
		cfg.Export.Format = a.format
	}
}
