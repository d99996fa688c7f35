package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/task-api/internal/api"
	apiMiddleware "github.com/phrazzld/task-api/internal/api/middleware"
	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/config"
	"github.com/phrazzld/task-api/internal/service"
	"github.com/phrazzld/task-api/internal/service/auth"
	"github.com/phrazzld/task-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestJWTSecret is long enough to pass config validation.
const TestJWTSecret = "test-jwt-secret-thatis32characterslong"

// AuthEnabledConfig returns an auth configuration with tokens turned on.
func AuthEnabledConfig(readOnlyWithoutJWT bool) config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            TestJWTSecret,
		ReadOnlyWithoutJWT:   readOnlyWithoutJWT,
		TokenLifetimeMinutes: 720,
	}
}

// ServerOptions configures NewTestServer.
type ServerOptions struct {
	Auth  config.AuthConfig
	Store store.TaskStore
	// Now overrides the clock used to issue and check tokens.
	Now func() time.Time
}

// NewTestServer starts an httptest server with the production route table
// and closes it when the test finishes. A nil Store is replaced by an empty
// MemoryTaskStore.
func NewTestServer(t *testing.T, opts ServerOptions) *httptest.Server {
	t.Helper()

	if opts.Store == nil {
		opts.Store = NewMemoryTaskStore()
	}
	if opts.Auth.TokenLifetimeMinutes == 0 {
		opts.Auth.TokenLifetimeMinutes = 720
	}

	svc, err := service.NewTaskService(opts.Store, nil)
	require.NoError(t, err)

	gate := newGate(t, opts)

	handlers := api.Handlers{
		Tasks:          api.NewTaskHandler(svc, nil),
		Auth:           api.NewAuthHandler(gate),
		AuthMiddleware: apiMiddleware.NewAuthMiddleware(gate),
	}
	if p, ok := opts.Store.(store.Pinger); ok {
		handlers.Health = api.NewHealthHandler(p)
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(nil))
	api.RegisterRoutes(r, handlers)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func newGate(t *testing.T, opts ServerOptions) auth.Gate {
	t.Helper()

	if opts.Now == nil || !opts.Auth.Enabled() {
		gate, err := auth.NewGate(opts.Auth, nil, nil)
		require.NoError(t, err)
		return gate
	}

	jwtService, err := auth.NewJWTServiceWithClock(opts.Auth, opts.Now)
	require.NoError(t, err)
	return auth.NewEnabledGate(
		jwtService,
		auth.CheckerFromConfig(opts.Auth),
		opts.Auth.ReadOnlyWithoutJWT,
		opts.Auth.TokenLifetime(),
		nil,
	)
}

// Do sends a request and returns the status code and body. body may be nil,
// a raw string sent verbatim, or any value marshaled to JSON. A non-empty
// token is sent as a bearer credential.
func Do(
	t *testing.T,
	server *httptest.Server,
	method, path, token string,
	body interface{},
) (int, []byte) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, server.URL+path, reader)
	require.NoError(t, err)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

// Login obtains a token through POST /api/login and fails the test otherwise.
func Login(t *testing.T, server *httptest.Server, username, password string) api.LoginResponse {
	t.Helper()

	status, body := Do(t, server, http.MethodPost, "/api/login", "",
		map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusOK, status, string(body))

	var resp api.LoginResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	require.NotEmpty(t, resp.Token)
	return resp
}

// CreateTask creates a task through the API and returns it.
func CreateTask(t *testing.T, server *httptest.Server, token, title string) api.TaskResponse {
	t.Helper()

	status, body := Do(t, server, http.MethodPost, "/api/tasks", token,
		map[string]string{"title": title})
	require.Equal(t, http.StatusCreated, status, string(body))
	return DecodeTask(t, body)
}

// DecodeTask parses a task response body.
func DecodeTask(t *testing.T, body []byte) api.TaskResponse {
	t.Helper()

	var task api.TaskResponse
	require.NoError(t, json.Unmarshal(body, &task), string(body))
	return task
}

// AssertErrorResponse checks the status code, that the error message contains
// expectedErrorMsgPart, and that a trace ID was returned.
func AssertErrorResponse(
	t *testing.T,
	status int,
	body []byte,
	expectedStatus int,
	expectedErrorMsgPart string,
) {
	t.Helper()

	assert.Equal(t, expectedStatus, status, string(body))

	var errResp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp),
		"Failed to unmarshal error response: %s", string(body))
	assert.Contains(t, errResp.Error, expectedErrorMsgPart)
	assert.NotEmpty(t, errResp.TraceID)
}
