package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	apiMiddleware "github.com/phrazzld/task-api/internal/api/middleware"
)

// Handlers groups everything RegisterRoutes binds.
type Handlers struct {
	Tasks          *TaskHandler
	Auth           *AuthHandler
	AuthMiddleware *apiMiddleware.AuthMiddleware
	// Health is optional.
	Health http.Handler
}

// RegisterRoutes binds the HTTP interface onto r. Login and health are
// public. Every task route passes through the auth gate, which applies the
// read policy per method.
func RegisterRoutes(r chi.Router, h Handlers) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/login", h.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(h.AuthMiddleware.Authenticate)

			r.Get("/tasks", h.Tasks.ListTasks)
			r.Post("/tasks", h.Tasks.CreateTask)
			r.Get("/tasks/{id}", h.Tasks.GetTask)
			r.Put("/tasks/{id}", h.Tasks.UpdateTask)
			r.Delete("/tasks/{id}", h.Tasks.DeleteTask)
		})
	})

	if h.Health != nil {
		r.Method(http.MethodGet, "/health", h.Health)
	}
}
