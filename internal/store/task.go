package store

import (
	"context"

	"github.com/phrazzld/task-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
// Every method is a single statement against the connection pool.
type TaskStore interface {
	// Create inserts a task with the given (already validated) title.
	// The store assigns the ID and creation time and sets Completed to false.
	Create(ctx context.Context, title string) (*domain.Task, error)

	// GetByID retrieves a task by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// List returns every task. The result is never nil.
	List(ctx context.Context) ([]*domain.Task, error)

	// Update applies the non-nil fields of update and returns the task as stored
	// afterwards. Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, id int64, update domain.TaskUpdate) (*domain.Task, error)

	// Delete removes a task permanently.
	// Returns ErrTaskNotFound if the task does not exist, including on a repeated delete.
	Delete(ctx context.Context, id int64) error
}
