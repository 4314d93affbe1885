package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/daybookhq/daybook-backend/internal/handlers"
	"github.com/daybookhq/daybook-backend/internal/middleware"
)

// Deps carries the wired handlers plus the auth guard used for the
// protected subtrees.
type Deps struct {
	Auth       *handlers.AuthHandler
	Journals   *handlers.JournalHandler
	Categories *handlers.CategoryHandler
	Prompts    *handlers.PromptHandler

	RequireAuth func(http.Handler) http.Handler
}

// Setup mounts the full API surface. Registration, login, logout and the
// prompt reads are public; everything else sits behind the auth guard,
// and prompt management additionally requires the admin role.
func Setup(r *chi.Mux, d Deps) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", d.Auth.Register)
		r.Post("/login", d.Auth.Login)
		r.Post("/logout", d.Auth.Logout)

		r.Group(func(r chi.Router) {
			r.Use(d.RequireAuth)
			r.Get("/me", d.Auth.Me)
			r.Put("/profile", d.Auth.UpdateProfile)
			r.Put("/preferences", d.Auth.UpdatePreferences)
			r.Put("/password", d.Auth.ChangePassword)
		})
	})

	r.Route("/api/journals", func(r chi.Router) {
		r.Use(d.RequireAuth)

		r.Post("/", d.Journals.Create)
		r.Get("/", d.Journals.List)
		r.Get("/search", d.Journals.Search)
		r.Get("/mood-stats", d.Journals.MoodStats)
		r.Get("/analytics", d.Journals.Analytics)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", d.Journals.Get)
			r.Put("/", d.Journals.Update)
			r.Delete("/", d.Journals.Delete)
			r.Patch("/favorite", d.Journals.ToggleFavorite)
		})
	})

	r.Route("/api/categories", func(r chi.Router) {
		r.Use(d.RequireAuth)

		r.Post("/", d.Categories.Create)
		r.Get("/", d.Categories.List)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", d.Categories.Get)
			r.Put("/", d.Categories.Update)
			r.Delete("/", d.Categories.Delete)
		})
	})

	r.Route("/api/prompts", func(r chi.Router) {
		// Prompts are not user-owned; the read surface is public
		r.Get("/", d.Prompts.ListActive)
		r.Get("/random", d.Prompts.Random)
		r.Get("/category/{category}", d.Prompts.ByCategory)

		r.Group(func(r chi.Router) {
			r.Use(d.RequireAuth)
			r.Use(middleware.RequireAdmin)
			r.Post("/", d.Prompts.Create)
			r.Put("/{id}", d.Prompts.Update)
			r.Delete("/{id}", d.Prompts.Delete)
		})
	})
}
