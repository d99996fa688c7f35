package testutils

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/store"
)

// MemoryTaskStore is an in-memory store.TaskStore. IDs start at 1 and are
// never reused.
type MemoryTaskStore struct {
	mu     sync.Mutex
	nextID int64
	tasks  map[int64]domain.Task
	err    error
}

var (
	_ store.TaskStore = (*MemoryTaskStore)(nil)
	_ store.Pinger    = (*MemoryTaskStore)(nil)
)

// NewMemoryTaskStore returns an empty store.
func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{tasks: make(map[int64]domain.Task)}
}

// FailWith makes every subsequent call return err. Pass nil to recover.
func (s *MemoryTaskStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Len returns the number of stored tasks.
func (s *MemoryTaskStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Create implements store.TaskStore.
func (s *MemoryTaskStore) Create(_ context.Context, title string) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}

	s.nextID++
	task := domain.Task{ID: s.nextID, Title: title, CreatedAt: time.Now().UTC()}
	s.tasks[task.ID] = task
	return &task, nil
}

// GetByID implements store.TaskStore.
func (s *MemoryTaskStore) GetByID(_ context.Context, id int64) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}

	task, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return &task, nil
}

// List implements store.TaskStore, newest first.
func (s *MemoryTaskStore) List(_ context.Context) ([]*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}

	out := make([]*domain.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		task := t
		out = append(out, &task)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// Update implements store.TaskStore.
func (s *MemoryTaskStore) Update(_ context.Context, id int64, update domain.TaskUpdate) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}

	task, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	if update.Title != nil {
		task.Title = *update.Title
	}
	if update.Completed != nil {
		task.Completed = *update.Completed
	}
	s.tasks[id] = task
	return &task, nil
}

// Delete implements store.TaskStore.
func (s *MemoryTaskStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}

	if _, ok := s.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}

// PingContext reports the injected failure, if any.
func (s *MemoryTaskStore) PingContext(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
