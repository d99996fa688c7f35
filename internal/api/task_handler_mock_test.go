package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/task-api/internal/api"
	apiMiddleware "github.com/phrazzld/task-api/internal/api/middleware"
	"github.com/phrazzld/task-api/internal/config"
	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/mocks"
	"github.com/phrazzld/task-api/internal/service/auth"
	"github.com/phrazzld/task-api/internal/store"
	"github.com/phrazzld/task-api/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockServer(t *testing.T, svc *mocks.MockTaskService) *httptest.Server {
	t.Helper()

	gate, err := auth.NewGate(config.AuthConfig{}, nil, nil)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(apiMiddleware.TraceMiddleware(nil))
	api.RegisterRoutes(r, api.Handlers{
		Tasks:          api.NewTaskHandler(svc, nil),
		Auth:           api.NewAuthHandler(gate),
		AuthMiddleware: apiMiddleware.NewAuthMiddleware(gate),
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func TestUpdateTask_PassesOnlyPresentFields(t *testing.T) {
	t.Parallel()

	var got domain.TaskUpdate
	var gotID int64
	svc := &mocks.MockTaskService{
		UpdateTaskFn: func(_ context.Context, id int64, update domain.TaskUpdate) (*domain.Task, error) {
			gotID, got = id, update
			return &domain.Task{ID: id, Title: "kept", Completed: true, CreatedAt: time.Now()}, nil
		},
	}
	server := newMockServer(t, svc)

	status, body := testutils.Do(t, server, http.MethodPut, "/api/tasks/7", "", `{"completed": true}`)
	require.Equal(t, http.StatusOK, status, string(body))

	assert.Equal(t, int64(7), gotID)
	assert.Nil(t, got.Title)
	require.NotNil(t, got.Completed)
	assert.True(t, *got.Completed)
}

func TestCreateTask_PassesRawTitle(t *testing.T) {
	t.Parallel()

	var raw string
	svc := &mocks.MockTaskService{
		CreateTaskFn: func(_ context.Context, rawTitle string) (*domain.Task, error) {
			raw = rawTitle
			return &domain.Task{ID: 1, Title: "x", CreatedAt: time.Now()}, nil
		},
	}
	server := newMockServer(t, svc)

	status, _ := testutils.Do(t, server, http.MethodPost, "/api/tasks", "", map[string]string{"title": "  x  "})
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "  x  ", raw, "normalization belongs to the service")
}

func TestHandlers_MapServiceErrors(t *testing.T) {
	t.Parallel()

	svc := &mocks.MockTaskService{DefaultError: store.ErrTaskNotFound}
	server := newMockServer(t, svc)

	status, body := testutils.Do(t, server, http.MethodGet, "/api/tasks/3", "", nil)
	testutils.AssertErrorResponse(t, status, body, http.StatusNotFound, "Task not found")

	status, body = testutils.Do(t, server, http.MethodDelete, "/api/tasks/3", "", nil)
	testutils.AssertErrorResponse(t, status, body, http.StatusNotFound, "Task not found")
}
