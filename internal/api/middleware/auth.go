package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/service/auth"
)

// AuthMiddleware asks the auth gate whether a request may proceed.
type AuthMiddleware struct {
	gate auth.Gate
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(gate auth.Gate) *AuthMiddleware {
	return &AuthMiddleware{gate: gate}
}

// Authenticate rejects requests the gate refuses with 401 and adds the
// authorized identity to the context of the rest.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := m.gate.Authorize(r)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrMissingToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			case errors.Is(err, auth.ErrExpiredToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
			case errors.Is(err, auth.ErrInvalidToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			default:
				shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Unauthorized", err,
					shared.WithElevatedLogLevel())
			}
			return
		}

		if !identity.Anonymous {
			logger.FromContext(r.Context()).Debug("request authorized",
				slog.String("subject", identity.Subject))
		}

		ctx := shared.WithIdentity(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetIdentity extracts the authorized identity from the request context.
func GetIdentity(r *http.Request) (auth.Identity, bool) {
	return shared.GetIdentity(r.Context())
}
