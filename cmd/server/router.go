package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/task-api/internal/api"
	apiMiddleware "github.com/phrazzld/task-api/internal/api/middleware"
)

// setupRouter creates the router with the standard middleware chain and all routes.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))

	api.RegisterRoutes(r, api.Handlers{
		Tasks:          api.NewTaskHandler(app.taskService, app.logger),
		Auth:           api.NewAuthHandler(app.gate),
		AuthMiddleware: apiMiddleware.NewAuthMiddleware(app.gate),
		Health:         api.NewHealthHandler(app.db),
	})

	return r
}
