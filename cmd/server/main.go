// Package main implements the entry point for the task API server, which
// serves CRUD operations over tasks backed by PostgreSQL.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/task-api/internal/config"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/platform/postgres"
)

func main() {
	migrateCmd := flag.String("migrate", "",
		"run a migration command and exit: up, down, status, version, reset")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, logCloser, err := logger.Setup(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}
	defer func() { _ = logCloser.Close() }()

	if *migrateCmd != "" {
		if err := runMigrations(cfg, *migrateCmd, appLogger); err != nil {
			appLogger.Error("Migration failed", slog.String("command", *migrateCmd), slog.Any("error", err))
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Error("Server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

// run wires the application and serves until ctx is canceled.
func run(ctx context.Context, cfg *config.Config, appLogger *slog.Logger) error {
	appLogger.Info("Server configuration loaded",
		slog.String("bind_addr", cfg.Server.BindAddr),
		slog.String("log_level", cfg.Log.Level),
		slog.Bool("auth_enabled", cfg.Auth.Enabled()),
		slog.Bool("cache_enabled", cfg.Cache.Enabled()))

	app, err := newApplication(ctx, cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.cleanup()

	return app.Run(ctx)
}

func runMigrations(cfg *config.Config, command string, appLogger *slog.Logger) error {
	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	return postgres.Migrate(db.DB, command, appLogger)
}
