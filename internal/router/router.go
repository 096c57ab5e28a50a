// Package router sets up all HTTP routes and middleware chains for the
// inkwell API server. Reads are public; every mutating route requires an
// authenticated admin session.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/handlers"
	"inkwell/internal/middleware"
	"inkwell/internal/session"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, api *handlers.API) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check — no auth.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		// Public reads.
		r.Get("/posts", api.PostsList)
		r.Get("/posts/{id}", api.PostGet)
		r.Get("/categories", api.CategoriesList)
		r.Get("/tags", api.TagsList)

		// Session management.
		r.Post("/auth/login", api.Login)
		r.Post("/auth/logout", api.Logout)

		// Authenticated admin area.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Post("/posts", api.PostCreate)
			r.Put("/posts/{id}", api.PostUpdate)
			r.Delete("/posts/{id}", api.PostDelete)
			r.Post("/posts/{id}/updates", api.UpdateAdd)

			r.Post("/preview", api.Preview)

			r.Post("/upload", api.MediaUpload)
			r.Get("/upload", api.MediaList)
			r.Delete("/upload", api.MediaDelete)

			r.Route("/auth/2fa", func(r chi.Router) {
				r.Post("/setup", api.TwoFASetup)
				r.Post("/confirm", api.TwoFAConfirm)
				r.Post("/disable", api.TwoFADisable)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
