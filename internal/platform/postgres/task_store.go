package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/redact"
	"github.com/phrazzld/task-api/internal/store"
)

const taskColumns = `id, title, completed, created_at`

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// Create implements store.TaskStore.Create.
// The database assigns the ID and created_at; completed starts false.
func (s *PostgresTaskStore) Create(ctx context.Context, title string) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO tasks (title)
		VALUES ($1)
		RETURNING ` + taskColumns

	var task domain.Task
	if err := s.db.GetContext(ctx, &task, query, title); err != nil {
		log.Error("failed to create task", slog.String("error", redact.Error(err)))
		return nil, store.NewStoreError("task", "create", "insert failed", MapError(err))
	}

	log.Info("task created successfully", slog.Int64("task_id", task.ID))
	return &task, nil
}

// GetByID implements store.TaskStore.GetByID.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving task by ID", slog.Int64("task_id", id))

	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE id = $1
	`

	var task domain.Task
	if err := s.db.GetContext(ctx, &task, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.Int64("task_id", id))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", redact.Error(err)),
			slog.Int64("task_id", id))
		return nil, store.NewStoreError("task", "get", "query failed", MapError(err))
	}

	return &task, nil
}

// List implements store.TaskStore.List.
// Tasks are returned newest first; an empty table yields an empty, non-nil slice.
func (s *PostgresTaskStore) List(ctx context.Context) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		ORDER BY id DESC
	`

	tasks := make([]*domain.Task, 0)
	if err := s.db.SelectContext(ctx, &tasks, query); err != nil {
		log.Error("failed to list tasks", slog.String("error", redact.Error(err)))
		return nil, store.NewStoreError("task", "list", "query failed", MapError(err))
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}

	log.Debug("tasks listed", slog.Int("count", len(tasks)))
	return tasks, nil
}

// Update implements store.TaskStore.Update.
// Fields left nil in update keep their stored value. The read and write happen
// in one statement, so a concurrent delete surfaces as store.ErrTaskNotFound.
func (s *PostgresTaskStore) Update(
	ctx context.Context,
	id int64,
	update domain.TaskUpdate,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("updating task",
		slog.Int64("task_id", id),
		slog.Bool("title_set", update.Title != nil),
		slog.Bool("completed_set", update.Completed != nil))

	query := `
		UPDATE tasks
		SET title = COALESCE($1, title),
			completed = COALESCE($2, completed)
		WHERE id = $3
		RETURNING ` + taskColumns

	var title, completed any
	if update.Title != nil {
		title = *update.Title
	}
	if update.Completed != nil {
		completed = *update.Completed
	}

	var task domain.Task
	if err := s.db.GetContext(ctx, &task, query, title, completed, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found for update", slog.Int64("task_id", id))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to update task",
			slog.String("error", redact.Error(err)),
			slog.Int64("task_id", id))
		return nil, store.NewStoreError("task", "update", "update failed", MapError(err))
	}

	log.Info("task updated successfully",
		slog.Int64("task_id", id),
		slog.Bool("completed", task.Completed))
	return &task, nil
}

// Delete implements store.TaskStore.Delete.
// Returns store.ErrTaskNotFound if no row was removed.
func (s *PostgresTaskStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", redact.Error(err)),
			slog.Int64("task_id", id))
		return store.NewStoreError("task", "delete", "delete failed", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Debug("task not found for delete", slog.Int64("task_id", id))
			return err
		}
		log.Error("failed to confirm task deletion",
			slog.String("error", redact.Error(err)),
			slog.Int64("task_id", id))
		return store.NewStoreError("task", "delete", "rows affected unavailable", err)
	}

	log.Info("task deleted successfully", slog.Int64("task_id", id))
	return nil
}

// Ping reports whether the database is reachable.
func (s *PostgresTaskStore) Ping(ctx context.Context) error {
	p, ok := s.db.(store.Pinger)
	if !ok {
		return errors.New("database handle does not support ping")
	}
	return p.PingContext(ctx)
}
