package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var taskRowColumns = []string{"id", "title", "completed", "created_at"}

func newMockStore(t *testing.T) (*PostgresTaskStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})

	return NewPostgresTaskStore(sqlx.NewDb(db, "pgx"), nil), mock
}

func TestNewPostgresTaskStore_NilDBPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewPostgresTaskStore(nil, nil)
	})
}

func TestPostgresTaskStore_Create(t *testing.T) {
	s, mock := newMockStore(t)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO tasks (title)")).
		WithArgs("buy milk").
		WillReturnRows(sqlmock.NewRows(taskRowColumns).AddRow(int64(1), "buy milk", false, created))

	task, err := s.Create(context.Background(), "buy milk")

	require.NoError(t, err)
	assert.Equal(t, &domain.Task{ID: 1, Title: "buy milk", CreatedAt: created}, task)
}

func TestPostgresTaskStore_CreateCheckViolation(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO tasks (title)")).
		WithArgs(" ").
		WillReturnError(&pgconn.PgError{Code: checkViolationCode, ConstraintName: "tasks_title_not_blank"})

	task, err := s.Create(context.Background(), " ")

	assert.Nil(t, task)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
}

func TestPostgresTaskStore_GetByID(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	query := regexp.QuoteMeta("FROM tasks") + `\s+WHERE id = \$1`

	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		want    *domain.Task
		wantErr error
	}{
		{
			name: "found",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WithArgs(int64(7)).
					WillReturnRows(sqlmock.NewRows(taskRowColumns).AddRow(int64(7), "x", true, created))
			},
			want: &domain.Task{ID: 7, Title: "x", Completed: true, CreatedAt: created},
		},
		{
			name: "not_found",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WithArgs(int64(7)).WillReturnError(sql.ErrNoRows)
			},
			wantErr: store.ErrTaskNotFound,
		},
		{
			name: "database_error",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WithArgs(int64(7)).WillReturnError(errors.New("connection reset"))
			},
			wantErr: errors.New("connection reset"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockStore(t)
			tt.setup(mock)

			task, err := s.GetByID(context.Background(), 7)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Nil(t, task)
				if errors.Is(tt.wantErr, store.ErrNotFound) {
					assert.ErrorIs(t, err, store.ErrTaskNotFound)
				} else {
					assert.False(t, store.IsNotFoundError(err))
					var storeErr *store.StoreError
					assert.ErrorAs(t, err, &storeErr)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, task)
		})
	}
}

func TestPostgresTaskStore_List(t *testing.T) {
	t.Run("newest_first", func(t *testing.T) {
		s, mock := newMockStore(t)
		now := time.Now().UTC()

		mock.ExpectQuery(regexp.QuoteMeta("ORDER BY id DESC")).
			WillReturnRows(sqlmock.NewRows(taskRowColumns).
				AddRow(int64(2), "second", false, now).
				AddRow(int64(1), "first", true, now))

		tasks, err := s.List(context.Background())

		require.NoError(t, err)
		require.Len(t, tasks, 2)
		assert.Equal(t, int64(2), tasks[0].ID)
		assert.Equal(t, int64(1), tasks[1].ID)
	})

	t.Run("empty_is_not_nil", func(t *testing.T) {
		s, mock := newMockStore(t)

		mock.ExpectQuery(regexp.QuoteMeta("ORDER BY id DESC")).
			WillReturnRows(sqlmock.NewRows(taskRowColumns))

		tasks, err := s.List(context.Background())

		require.NoError(t, err)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)
	})
}

func TestPostgresTaskStore_Update(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	title := "renamed"
	done := true

	tests := []struct {
		name      string
		update    domain.TaskUpdate
		args      []driver.Value
		returnErr error
		wantErr   error
	}{
		{
			name:   "title_only",
			update: domain.TaskUpdate{Title: &title},
			args:   []driver.Value{"renamed", nil, int64(3)},
		},
		{
			name:   "completed_only",
			update: domain.TaskUpdate{Completed: &done},
			args:   []driver.Value{nil, true, int64(3)},
		},
		{
			name:   "both",
			update: domain.TaskUpdate{Title: &title, Completed: &done},
			args:   []driver.Value{"renamed", true, int64(3)},
		},
		{
			name:      "not_found",
			update:    domain.TaskUpdate{Completed: &done},
			args:      []driver.Value{nil, true, int64(3)},
			returnErr: sql.ErrNoRows,
			wantErr:   store.ErrTaskNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockStore(t)

			expect := mock.ExpectQuery(regexp.QuoteMeta("UPDATE tasks")).WithArgs(tt.args...)
			if tt.returnErr != nil {
				expect.WillReturnError(tt.returnErr)
			} else {
				expect.WillReturnRows(sqlmock.NewRows(taskRowColumns).
					AddRow(int64(3), "renamed", true, created))
			}

			task, err := s.Update(context.Background(), 3, tt.update)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, task)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(3), task.ID)
			assert.Equal(t, created, task.CreatedAt)
		})
	}
}

func TestPostgresTaskStore_Delete(t *testing.T) {
	query := regexp.QuoteMeta("DELETE FROM tasks WHERE id = $1")

	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "deleted",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(query).WithArgs(int64(4)).WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "missing",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(query).WithArgs(int64(4)).WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: store.ErrTaskNotFound,
		},
		{
			name: "rows_affected_error",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(query).WithArgs(int64(4)).
					WillReturnResult(sqlmock.NewErrorResult(errors.New("driver gave up")))
			},
			wantErr: errors.New("driver gave up"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockStore(t)
			tt.setup(mock)

			err := s.Delete(context.Background(), 4)

			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			if errors.Is(tt.wantErr, store.ErrNotFound) {
				assert.ErrorIs(t, err, store.ErrTaskNotFound)
			} else {
				assert.False(t, store.IsNotFoundError(err))
			}
		})
	}
}

func TestPostgresTaskStore_Ping(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	s := NewPostgresTaskStore(sqlx.NewDb(db, "pgx"), nil)

	mock.ExpectPing()
	assert.NoError(t, s.Ping(context.Background()))

	mock.ExpectPing().WillReturnError(errors.New("down"))
	assert.Error(t, s.Ping(context.Background()))

	assert.NoError(t, mock.ExpectationsWereMet())
}
