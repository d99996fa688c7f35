package api

import (
	"context"
	"net/http"
	"time"

	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/store"
)

// healthTimeout bounds the database ping behind GET /health.
const healthTimeout = 2 * time.Second

// HealthHandler reports whether the database is reachable.
type HealthHandler struct {
	db store.Pinger
}

// NewHealthHandler creates a HealthHandler pinging db.
func NewHealthHandler(db store.Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// ServeHTTP answers 200 "OK" when the ping succeeds and 503 otherwise.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable, "Database unavailable", err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
