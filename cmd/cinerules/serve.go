// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/cinerules/internal/api"
	"github.com/tomtom215/cinerules/internal/logging"
	"github.com/tomtom215/cinerules/internal/metrics"
	"github.com/tomtom215/cinerules/internal/supervisor"
	"github.com/tomtom215/cinerules/internal/supervisor/services"
)

// uptimeInterval is how often the uptime gauge is refreshed.
const uptimeInterval = 15 * time.Second

var serveBindings = []flagBinding{
	{"host", "server.host"},
	{"port", "server.port"},
	{"refresh", "schedule.refresh_interval"},
	{"mine-on-startup", "schedule.mine_on_startup"},
}

func newServeCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve rules and recommendations over HTTP",
		Long: `Run the HTTP API under a supervisor tree.

The latest stored model is served immediately. A mining pass runs on startup
(schedule.mine_on_startup) and every --refresh interval; POST /api/v1/mine
starts one on demand.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, global, serveBindings...)
			if err != nil {
				return err
			}

			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.close()

			return runServe(cmd.Context(), a)
		},
	}

	cmd.Flags().String("host", "", "listen host")
	cmd.Flags().Int("port", 0, "listen port")
	cmd.Flags().Duration("refresh", 0, "re-mine at this interval (0 disables)")
	cmd.Flags().Bool("mine-on-startup", true, "mine once when the server starts")

	return cmd
}

func runServe(ctx context.Context, a *app) error {
	cfg := a.cfg
	startTime := time.Now()
	metrics.SetAppInfo(version)

	logging.Info().Str("version", version).Msg("Starting cinerules with supervisor tree")

	if _, err := a.restoreLatest(ctx); err != nil {
		// Non-fatal: the first mining pass publishes a model.
		logging.Warn().Err(err).Msg("Failed to restore model, serving after first mining pass")
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return err
	}

	tree.AddMiningService(services.NewMiningService(a.engine, services.MiningServiceConfig{
		MineOnStartup:   cfg.Schedule.MineOnStartup,
		RefreshInterval: cfg.Schedule.RefreshInterval,
	}, a.logger))

	var catalog api.ModelCatalog
	if a.store != nil {
		catalog = a.store
	}
	handler := api.NewHandler(a.engine, catalog)
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFromServer(&cfg.Server)))

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       2 * cfg.Server.ReadTimeout,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	go func() {
		ticker := time.NewTicker(uptimeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				metrics.RecordUptime(startTime)
			}
		}
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// Wait for supervisor to finish (either from signal or error)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	// Mining passes started through the API run detached from requests.
	handler.Wait()

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
	return nil
}
