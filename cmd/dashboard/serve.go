package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/schedule-dashboard/internal/application"
	"github.com/example/schedule-dashboard/internal/config"
	httptransport "github.com/example/schedule-dashboard/internal/http"
	"github.com/example/schedule-dashboard/internal/live"
	"github.com/example/schedule-dashboard/internal/metrics"
	"github.com/example/schedule-dashboard/internal/persistence/sqlite"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := opts.logger(cmd)
			if err != nil {
				return err
			}
			cfg, err := opts.config()
			if err != nil {
				logger.Error("failed to load configuration", "error", err)
				return err
			}
			if err := cfg.RequireServe(); err != nil {
				logger.Error("failed to load configuration", "error", err)
				return err
			}
			if err := application.ValidatePasswordHash(cfg.AdminPasswordHash); err != nil {
				logger.Error("invalid admin password hash", "error", err)
				return fmt.Errorf("%s: %w", config.EnvAdminPasswordHash, err)
			}

			listener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.HTTPPort))
			if err != nil {
				logger.Error("failed to listen", "error", err)
				return err
			}
			return runServer(cmd.Context(), cfg, listener, logger)
		},
	}
}

// runServer wires the store, services, live feed and HTTP surface, serves on
// listener and shuts everything down when ctx is cancelled or serving fails.
func runServer(ctx context.Context, cfg config.Config, listener net.Listener, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	storage, err := openStore(ctx, cfg, logger)
	if err != nil {
		_ = listener.Close()
		logger.Error("failed to prepare storage", "error", err)
		return err
	}
	defer closeStore(context.Background(), storage, logger)

	classRepo := sqlite.NewClassRepository(storage)
	eventRepo := sqlite.NewEventRepository(storage)

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	hub := live.NewHub(logger)
	go hub.Run(hubCtx)

	broadcaster := live.NewBroadcaster(hub, logger)
	registry := metrics.New(hub.ClientCount)

	classService := application.NewClassServiceWithLogger(classRepo, broadcaster, logger)
	eventService := application.NewEventServiceWithLogger(eventRepo, broadcaster, logger)
	dashboardService := application.NewDashboardServiceWithLogger(classRepo, eventRepo, time.Now, logger)
	transferService := application.NewTransferServiceWithLogger(classRepo, eventRepo, broadcaster, registry, logger)
	authService := application.NewAuthServiceWithLogger(
		application.AdminAccount{Username: cfg.AdminUser, PasswordHash: cfg.AdminPasswordHash},
		[]byte(cfg.SessionSecret),
		nil,
		nil,
		time.Now,
		cfg.SessionTTL,
		logger,
	)

	job := live.NewNextItemJob(dashboardService, broadcaster, cfg.NextItemSpec, logger)
	if err := job.Start(); err != nil {
		_ = listener.Close()
		logger.Error("failed to schedule next item job", "error", err, "spec", cfg.NextItemSpec)
		return err
	}

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Dashboard: httptransport.NewDashboardHandler(dashboardService, logger),
		Auth:      httptransport.NewAuthHandler(authService, cfg.SecureCookies, logger),
		Classes:   httptransport.NewClassHandler(classService, logger),
		Events:    httptransport.NewEventHandler(eventService, logger),
		Transfer:  httptransport.NewTransferHandler(transferService, classService, eventService, logger),
		Health:    httptransport.NewHealthHandler(storage, logger),
		Sessions:  authService,
		Live:      live.Handler(hub, logger),
		Metrics:   registry.Handler(),
		StaticDir: cfg.StaticDir,
		Middleware: []func(http.Handler) http.Handler{
			httptransport.Recover(logger),
			httptransport.RequestLogger(logger),
			httptransport.Metrics(registry),
		},
		Logger: logger,
	})

	server := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancelShutdown()
		job.Stop(shutdownCtx)
		stopHub()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("dashboard listening", "addr", listener.Addr().String(), "next_item_spec", cfg.NextItemSpec)
	serveErr := server.Serve(listener)
	if errors.Is(serveErr, http.ErrServerClosed) {
		serveErr = nil
	}
	if serveErr != nil {
		logger.Error("server encountered error", "error", serveErr)
	}
	cancel()
	<-shutdownDone
	if serveErr != nil {
		return serveErr
	}
	logger.Info("dashboard stopped")
	return nil
}
