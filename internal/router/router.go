// Package router sets up all HTTP routes and middleware chains for the
// Conduit API. Reads are public; writes sit behind RequireAuth, and the
// login and registration endpoints are rate-limited per client IP.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"conduit/internal/handlers"
	"conduit/internal/middleware"
	"conduit/internal/render"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(
	sessions middleware.SessionGetter,
	authLimiter *middleware.RateLimiter,
	auth *handlers.Auth,
	categories *handlers.Categories,
	articles *handlers.Articles,
	comments *handlers.Comments,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessions))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.Status(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		render.Status(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		// Accounts. Credential endpoints are rate-limited.
		r.Group(func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/users", auth.Register)
			r.Post("/users/login", auth.Login)
		})
		r.Post("/users/logout", auth.Logout)
		r.With(middleware.RequireAuth).Get("/user", auth.Current)
		r.Get("/profiles/{username}", auth.Profile)

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categories.List)
			r.With(middleware.RequireAuth).Post("/", categories.Create)
			r.Route("/{slug}", func(r chi.Router) {
				r.Get("/", categories.Get)
				r.Get("/articles", categories.Articles)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAuth)
					r.Put("/", categories.Update)
					r.Delete("/", categories.Delete)
					r.Post("/articles", categories.CreateArticle)
				})
			})
		})

		r.Route("/articles", func(r chi.Router) {
			r.Get("/", articles.List)
			r.With(middleware.RequireAuth).Post("/", articles.Create)
			r.Route("/{slug}", func(r chi.Router) {
				r.Get("/", articles.Get)
				r.Get("/comments", comments.List)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAuth)
					r.Put("/", articles.Update)
					r.Delete("/", articles.Delete)
					r.Post("/comments", comments.Create)
					r.Delete("/comments/{id}", comments.Delete)
				})
			})
		})

		r.Get("/tags", articles.Tags)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, http.StatusOK, render.Envelope{"status": "ok"})
}
