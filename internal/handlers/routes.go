package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the page, API and static routes.
func NewRouter(h *Handlers) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	// Static files
	r.Handle("/static/*", http.StripPrefix("/static/", staticHandler()))

	// Page routes
	r.Get("/", h.Home)

	// List API routes
	r.Post("/api/lists", h.CreateList)
	r.Delete("/api/lists/{key}", h.DeleteList)
	r.Get("/api/lists/{key}/export", h.ExportList)

	// Task API routes
	r.Post("/api/lists/{key}/tasks", h.CreateTask)
	r.Post("/api/lists/{key}/tasks/{index}/edit", h.BeginEdit)
	r.Put("/api/lists/{key}/edit", h.CommitEdit)
	r.Delete("/api/lists/{key}/edit", h.CancelEdit)
	r.Delete("/api/lists/{key}/tasks/{index}", h.DeleteTask)
	r.Post("/api/lists/{key}/tasks/{index}/toggle", h.ToggleTask)

	return r
}
