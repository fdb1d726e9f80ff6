package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/pricemachine/internal/web"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the price list over HTTP",
		Long: `Serve a searchable page, a JSON API and report downloads.

Routes:
  GET  /                 ranked table, ?q= filters by name
  GET  /api/prices       matching rows as JSON
  GET  /api/summary      unit price statistics
  GET  /api/report       per-file load report
  POST /api/reload       read the directory again
  GET  /export/{format}  download html, csv, xlsx or json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runServe(cmd.Context())
		},
	}
}

func (a *app) runServe(ctx context.Context) error {
	server := web.NewServer(a.service, a.cfg)

	jobCtx, cancelJobs := context.WithCancel(ctx)
	defer cancelJobs()
	go a.service.StartReloadScheduler(jobCtx, a.cfg.Prices.ReloadInterval)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(a.cfg.Server.Addr())
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down...")
	cancelJobs()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		return err
	}
	slog.Info("server stopped")
	return nil
}
