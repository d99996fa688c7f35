package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/task-api/internal/config"
	"github.com/phrazzld/task-api/internal/platform/cache"
	"github.com/phrazzld/task-api/internal/platform/postgres"
	"github.com/phrazzld/task-api/internal/service"
	"github.com/phrazzld/task-api/internal/service/auth"
	"github.com/phrazzld/task-api/internal/store"
	"github.com/redis/go-redis/v9"
)

// application holds the shared dependencies and releases them on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	db    *sqlx.DB
	redis *redis.Client

	taskStore   store.TaskStore
	taskCache   *cache.TaskStore
	taskService service.TaskService
	gate        auth.Gate
}

// newApplication connects to the database, applies pending migrations and
// builds the service graph.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := setupAppDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}

	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := postgres.Migrate(db.DB, postgres.MigrateUp, logger); err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	if err := app.initServices(ctx); err != nil {
		app.cleanup()
		return nil, err
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// initServices builds stores, services and the auth gate on top of app.db.
func (app *application) initServices(ctx context.Context) error {
	app.taskStore = postgres.NewPostgresTaskStore(app.db, app.logger)

	if app.config.Cache.Enabled() {
		client, err := cache.NewRedisClient(ctx, app.config.Cache.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		app.redis = client
		app.taskCache = cache.NewTaskStore(app.taskStore, client, app.config.Cache.TTL(), app.logger)
		app.taskStore = app.taskCache
		app.logger.Info("Task cache enabled", slog.Duration("ttl", app.config.Cache.TTL()))
	}

	var err error
	app.taskService, err = service.NewTaskService(app.taskStore, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create task service: %w", err)
	}

	app.gate, err = auth.NewGate(app.config.Auth, nil, app.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize authentication: %w", err)
	}

	return nil
}

// Run serves HTTP until ctx is canceled.
func (app *application) Run(ctx context.Context) error {
	return app.startHTTPServer(ctx, app.setupRouter())
}

// cleanup releases connections. It is safe to call on a partially built application.
func (app *application) cleanup() {
	if app.taskCache != nil {
		app.taskCache.LogStats()
	}
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("Error closing redis connection", slog.Any("error", err))
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", slog.Any("error", err))
		}
	}
}
