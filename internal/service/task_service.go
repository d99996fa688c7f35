package service

import (
	"context"
	"log/slog"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/redact"
	"github.com/phrazzld/task-api/internal/store"
)

// TaskService provides task operations for the API layer.
type TaskService interface {
	// CreateTask validates rawTitle and stores a new, incomplete task.
	CreateTask(ctx context.Context, rawTitle string) (*domain.Task, error)

	// GetTask returns a single task or store.ErrTaskNotFound.
	GetTask(ctx context.Context, id int64) (*domain.Task, error)

	// ListTasks returns every task; never nil.
	ListTasks(ctx context.Context) ([]*domain.Task, error)

	// UpdateTask applies a partial update and returns the task as stored.
	UpdateTask(ctx context.Context, id int64, update domain.TaskUpdate) (*domain.Task, error)

	// DeleteTask removes a task or returns store.ErrTaskNotFound.
	DeleteTask(ctx context.Context, id int64) error
}

type taskServiceImpl struct {
	tasks  store.TaskStore
	logger *slog.Logger
}

var _ TaskService = (*taskServiceImpl)(nil)

// NewTaskService creates a TaskService backed by tasks.
func NewTaskService(tasks store.TaskStore, logger *slog.Logger) (TaskService, error) {
	if tasks == nil {
		return nil, domain.NewValidationError("tasks", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "task_service")),
	}, nil
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(ctx context.Context, rawTitle string) (*domain.Task, error) {
	title, err := domain.NormalizeTitle(rawTitle)
	if err != nil {
		return nil, err
	}

	task, err := s.tasks.Create(ctx, title)
	if err != nil {
		return nil, s.storeFailure(ctx, "create_task", "failed to save task", err)
	}
	return task, nil
}

// GetTask implements TaskService.GetTask
func (s *taskServiceImpl) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrTaskNotFound
		}
		return nil, s.storeFailure(ctx, "get_task", "failed to load task", err)
	}
	return task, nil
}

// ListTasks implements TaskService.ListTasks
func (s *taskServiceImpl) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, s.storeFailure(ctx, "list_tasks", "failed to list tasks", err)
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return tasks, nil
}

// UpdateTask implements TaskService.UpdateTask
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	id int64,
	update domain.TaskUpdate,
) (*domain.Task, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	if update.Title != nil {
		title, err := domain.NormalizeTitle(*update.Title)
		if err != nil {
			return nil, err
		}
		update.Title = &title
	}

	task, err := s.tasks.Update(ctx, id, update)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrTaskNotFound
		}
		return nil, s.storeFailure(ctx, "update_task", "failed to update task", err)
	}
	return task, nil
}

// DeleteTask implements TaskService.DeleteTask
func (s *taskServiceImpl) DeleteTask(ctx context.Context, id int64) error {
	if err := validateID(id); err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		if store.IsNotFoundError(err) {
			return store.ErrTaskNotFound
		}
		return s.storeFailure(ctx, "delete_task", "failed to delete task", err)
	}
	return nil
}

func (s *taskServiceImpl) storeFailure(ctx context.Context, op, msg string, err error) error {
	logger.FromContextOrDefault(ctx, s.logger).Error(msg,
		slog.String("operation", op),
		slog.String("error", redact.Error(err)))
	return NewTaskServiceError(op, msg, err)
}

func validateID(id int64) error {
	if id <= 0 {
		return domain.NewValidationError("id", "must be a positive integer", domain.ErrInvalidID)
	}
	return nil
}
