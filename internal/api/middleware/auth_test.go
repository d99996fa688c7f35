package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubGate answers Authorize with fixed values.
type stubGate struct {
	identity auth.Identity
	err      error
}

func (g stubGate) Enabled() bool { return true }

func (g stubGate) Login(context.Context, string, string) (*auth.Token, error) {
	return nil, errors.New("not used")
}

func (g stubGate) Authorize(*http.Request) (auth.Identity, error) {
	return g.identity, g.err
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		gate       stubGate
		wantStatus int
		wantError  string
	}{
		{"authorized", stubGate{identity: auth.Identity{Subject: "grace"}}, http.StatusOK, ""},
		{"anonymous", stubGate{identity: auth.Anonymous}, http.StatusOK, ""},
		{"missing token", stubGate{err: auth.ErrMissingToken}, http.StatusUnauthorized, "Authorization header required"},
		{"expired", stubGate{err: auth.ErrExpiredToken}, http.StatusUnauthorized, "Token expired"},
		{"invalid", stubGate{err: auth.ErrInvalidToken}, http.StatusUnauthorized, "Invalid token"},
		{"other", stubGate{err: errors.New("boom")}, http.StatusUnauthorized, "Unauthorized"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var seen *auth.Identity
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				id, ok := GetIdentity(r)
				require.True(t, ok)
				seen = &id
				w.WriteHeader(http.StatusOK)
			})

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
			NewAuthMiddleware(tc.gate).Authenticate(next).ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantError == "" {
				require.NotNil(t, seen)
				assert.Equal(t, tc.gate.identity, *seen)
				return
			}

			assert.Nil(t, seen, "next handler must not run")
			var resp shared.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tc.wantError, resp.Error)
		})
	}
}
