package api

import (
	"net/http"
	"time"

	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/service/auth"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	gate auth.Gate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(gate auth.Gate) *AuthHandler {
	return &AuthHandler{gate: gate}
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.gate.Enabled() {
		HandleAPIError(w, r, auth.ErrAuthDisabled, "")
		return
	}

	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	token, err := h.gate.Login(r.Context(), *req.Username, *req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, LoginResponse{
		Token:          token.Value,
		ExpiresAt:      token.ExpiresAt.UTC(),
		ExpiresInHours: wholeHours(token.Lifetime),
	})
}

// wholeHours rounds d up so that sub-hour lifetimes never report zero.
func wholeHours(d time.Duration) int64 {
	return int64((d + time.Hour - 1) / time.Hour)
}
