package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing.
// Function fields take precedence; unset methods fall back to the defaults.
type MockTaskStore struct {
	CreateFn  func(ctx context.Context, title string) (*domain.Task, error)
	GetByIDFn func(ctx context.Context, id int64) (*domain.Task, error)
	ListFn    func(ctx context.Context) ([]*domain.Task, error)
	UpdateFn  func(ctx context.Context, id int64, update domain.TaskUpdate) (*domain.Task, error)
	DeleteFn  func(ctx context.Context, id int64) error

	// Default return values
	Task         *domain.Task
	Tasks        []*domain.Task
	DefaultError error

	mu    sync.Mutex
	calls map[string]int
}

var _ store.TaskStore = (*MockTaskStore)(nil)

func (m *MockTaskStore) record(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[method]++
}

// Calls returns how many times method was invoked.
func (m *MockTaskStore) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

// Create implements store.TaskStore
func (m *MockTaskStore) Create(ctx context.Context, title string) (*domain.Task, error) {
	m.record("Create")
	if m.CreateFn != nil {
		return m.CreateFn(ctx, title)
	}
	return m.Task, m.DefaultError
}

// GetByID implements store.TaskStore
func (m *MockTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	m.record("GetByID")
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return m.Task, m.DefaultError
}

// List implements store.TaskStore
func (m *MockTaskStore) List(ctx context.Context) ([]*domain.Task, error) {
	m.record("List")
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return m.Tasks, m.DefaultError
}

// Update implements store.TaskStore
func (m *MockTaskStore) Update(
	ctx context.Context,
	id int64,
	update domain.TaskUpdate,
) (*domain.Task, error) {
	m.record("Update")
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, update)
	}
	return m.Task, m.DefaultError
}

// Delete implements store.TaskStore
func (m *MockTaskStore) Delete(ctx context.Context, id int64) error {
	m.record("Delete")
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return m.DefaultError
}
