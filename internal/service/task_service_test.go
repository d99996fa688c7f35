package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/mocks"
	"github.com/phrazzld/task-api/internal/service"
	"github.com/phrazzld/task-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, s store.TaskStore) service.TaskService {
	t.Helper()
	svc, err := service.NewTaskService(s, nil)
	require.NoError(t, err)
	return svc
}

func TestNewTaskService(t *testing.T) {
	svc, err := service.NewTaskService(nil, nil)
	assert.Nil(t, svc)
	assert.ErrorIs(t, err, domain.ErrValidation)

	svc, err = service.NewTaskService(&mocks.MockTaskStore{}, nil)
	assert.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestCreateTask(t *testing.T) {
	created := &domain.Task{ID: 1, Title: "buy milk", CreatedAt: time.Now()}

	tests := []struct {
		name       string
		title      string
		storeErr   error
		wantTitle  string
		wantErr    error
		wantStored bool
	}{
		{name: "valid", title: "buy milk", wantTitle: "buy milk", wantStored: true},
		{name: "trimmed", title: "  buy milk \n", wantTitle: "buy milk", wantStored: true},
		{name: "empty", title: "", wantErr: domain.ErrEmptyTitle},
		{name: "whitespace", title: "   ", wantErr: domain.ErrEmptyTitle},
		{name: "store_failure", title: "x", storeErr: errors.New("db down"), wantErr: errors.New("db down"), wantStored: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotTitle string
			m := &mocks.MockTaskStore{
				CreateFn: func(ctx context.Context, title string) (*domain.Task, error) {
					gotTitle = title
					if tt.storeErr != nil {
						return nil, tt.storeErr
					}
					return created, nil
				},
			}

			task, err := newService(t, m).CreateTask(context.Background(), tt.title)

			if tt.wantStored {
				assert.Equal(t, 1, m.Calls("Create"))
			} else {
				assert.Equal(t, 0, m.Calls("Create"), "invalid titles must not reach the store")
			}

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Nil(t, task)
				if tt.storeErr != nil {
					var svcErr *service.TaskServiceError
					assert.ErrorAs(t, err, &svcErr)
					assert.False(t, errors.Is(err, domain.ErrValidation))
				} else {
					assert.ErrorIs(t, err, tt.wantErr)
					assert.ErrorIs(t, err, domain.ErrValidation)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, gotTitle)
			assert.Equal(t, created, task)
		})
	}
}

func TestGetTask(t *testing.T) {
	task := &domain.Task{ID: 5, Title: "x", CreatedAt: time.Now()}

	t.Run("found", func(t *testing.T) {
		m := &mocks.MockTaskStore{Task: task}
		got, err := newService(t, m).GetTask(context.Background(), 5)
		require.NoError(t, err)
		assert.Equal(t, task, got)
	})

	t.Run("not_found", func(t *testing.T) {
		m := &mocks.MockTaskStore{DefaultError: store.ErrTaskNotFound}
		_, err := newService(t, m).GetTask(context.Background(), 5)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("invalid_id", func(t *testing.T) {
		m := &mocks.MockTaskStore{}
		_, err := newService(t, m).GetTask(context.Background(), 0)
		assert.ErrorIs(t, err, domain.ErrInvalidID)
		assert.Equal(t, 0, m.Calls("GetByID"))
	})

	t.Run("store_failure", func(t *testing.T) {
		m := &mocks.MockTaskStore{DefaultError: errors.New("timeout")}
		_, err := newService(t, m).GetTask(context.Background(), 5)
		var svcErr *service.TaskServiceError
		assert.ErrorAs(t, err, &svcErr)
		assert.Equal(t, "get_task", svcErr.Operation)
	})
}

func TestListTasks(t *testing.T) {
	t.Run("nil_from_store_becomes_empty", func(t *testing.T) {
		m := &mocks.MockTaskStore{}
		tasks, err := newService(t, m).ListTasks(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)
	})

	t.Run("returns_all", func(t *testing.T) {
		m := &mocks.MockTaskStore{Tasks: []*domain.Task{{ID: 2}, {ID: 1}}}
		tasks, err := newService(t, m).ListTasks(context.Background())
		require.NoError(t, err)
		assert.Len(t, tasks, 2)
	})

	t.Run("store_failure", func(t *testing.T) {
		m := &mocks.MockTaskStore{DefaultError: errors.New("boom")}
		_, err := newService(t, m).ListTasks(context.Background())
		var svcErr *service.TaskServiceError
		assert.ErrorAs(t, err, &svcErr)
	})
}

func TestUpdateTask(t *testing.T) {
	title := "  renamed  "
	blank := " "
	done := true

	tests := []struct {
		name      string
		id        int64
		update    domain.TaskUpdate
		storeErr  error
		wantErr   error
		wantCalls int
		check     func(t *testing.T, got domain.TaskUpdate)
	}{
		{
			name:      "title_is_trimmed",
			id:        3,
			update:    domain.TaskUpdate{Title: &title},
			wantCalls: 1,
			check: func(t *testing.T, got domain.TaskUpdate) {
				require.NotNil(t, got.Title)
				assert.Equal(t, "renamed", *got.Title)
				assert.Nil(t, got.Completed)
			},
		},
		{
			name:      "completed_only",
			id:        3,
			update:    domain.TaskUpdate{Completed: &done},
			wantCalls: 1,
			check: func(t *testing.T, got domain.TaskUpdate) {
				assert.Nil(t, got.Title)
				require.NotNil(t, got.Completed)
				assert.True(t, *got.Completed)
			},
		},
		{name: "blank_title", id: 3, update: domain.TaskUpdate{Title: &blank}, wantErr: domain.ErrEmptyTitle},
		{name: "invalid_id", id: -1, update: domain.TaskUpdate{Completed: &done}, wantErr: domain.ErrInvalidID},
		{
			name:      "not_found",
			id:        3,
			update:    domain.TaskUpdate{Completed: &done},
			storeErr:  store.ErrTaskNotFound,
			wantErr:   store.ErrTaskNotFound,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got domain.TaskUpdate
			m := &mocks.MockTaskStore{
				UpdateFn: func(ctx context.Context, id int64, update domain.TaskUpdate) (*domain.Task, error) {
					got = update
					if tt.storeErr != nil {
						return nil, tt.storeErr
					}
					return &domain.Task{ID: id, Title: "renamed", Completed: true}, nil
				},
			}

			task, err := newService(t, m).UpdateTask(context.Background(), tt.id, tt.update)

			assert.Equal(t, tt.wantCalls, m.Calls("Update"))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, task)
				return
			}
			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestDeleteTask(t *testing.T) {
	tests := []struct {
		name     string
		id       int64
		storeErr error
		check    func(t *testing.T, err error)
	}{
		{name: "deleted", id: 1, check: func(t *testing.T, err error) { assert.NoError(t, err) }},
		{
			name: "not_found", id: 1, storeErr: store.ErrTaskNotFound,
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, store.ErrTaskNotFound) },
		},
		{
			name: "invalid_id", id: 0,
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, domain.ErrValidation) },
		},
		{
			name: "store_failure", id: 1, storeErr: errors.New("gone"),
			check: func(t *testing.T, err error) {
				var svcErr *service.TaskServiceError
				assert.ErrorAs(t, err, &svcErr)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mocks.MockTaskStore{DefaultError: tt.storeErr}
			tt.check(t, newService(t, m).DeleteTask(context.Background(), tt.id))
		})
	}
}
