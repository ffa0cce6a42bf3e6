package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/schedule-dashboard/internal/application"
	"github.com/example/schedule-dashboard/internal/config"
	"github.com/example/schedule-dashboard/internal/logging"
	"github.com/example/schedule-dashboard/internal/persistence/sqlite"
)

type rootOptions struct {
	envFile  string
	logLevel string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "dashboard",
		Short:        "Painel de aulas e eventos do dia",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", config.DefaultEnvFile, "Path of the optional .env file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn or error")

	cmd.AddCommand(
		newServeCommand(opts),
		newHashPasswordCommand(opts),
		newExportCommand(opts),
		newImportCommand(opts),
		newResetCommand(opts),
	)
	return cmd
}

// logger writes to the command's stderr so that stdout stays free for
// exported documents. serve logs JSON, the one-shot commands plain text.
func (o *rootOptions) logger(cmd *cobra.Command) (*slog.Logger, error) {
	level, err := parseLevel(o.logLevel)
	if err != nil {
		return nil, err
	}
	if cmd.Name() == "serve" {
		return logging.New(cmd.ErrOrStderr(), level), nil
	}
	return logging.NewText(cmd.ErrOrStderr(), level), nil
}

func (o *rootOptions) config() (config.Config, error) {
	return config.LoadFrom(o.envFile)
}

func parseLevel(value string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(value))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", value)
	}
	return level, nil
}

// openStore opens and migrates the database named by cfg.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (*sqlite.ConnectionPool, error) {
	pool, err := sqlite.Open(ctx, sqlite.DefaultConfig(cfg.SQLiteDSN))
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	applied, err := pool.Migrate(ctx, logger)
	if err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}
	if len(applied) > 0 {
		logger.InfoContext(ctx, "database migrations applied", "versions", applied)
	}
	return pool, nil
}

func closeStore(ctx context.Context, pool *sqlite.ConnectionPool, logger *slog.Logger) {
	if err := pool.Close(); err != nil {
		logger.ErrorContext(ctx, "failed to close storage", "error", err)
	}
}

func collectionArg(raw string) (application.Collection, error) {
	collection, err := application.ParseCollection(raw)
	if err != nil {
		return "", fmt.Errorf("--collection must be classes or events: %w", err)
	}
	return collection, nil
}
