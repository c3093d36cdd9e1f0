// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up the HTTP routes and middleware chains: the
// JSON API under /api and the public share pages under /p.
package router

import (
	"github.com/go-chi/chi/v5"

	"pagepress/internal/handlers"
	"pagepress/internal/middleware"
)

// New creates the configured Chi router with all middleware and route
// groups wired up. The rate limiter guards the endpoints that spend
// model calls.
func New(api *handlers.API, aiLimiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	// Health check.
	r.Get("/health", handlers.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/providers", api.Providers)

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", api.TemplatesList)
			r.With(aiLimiter.Middleware).Post("/analyze", api.TemplateAnalyze)
			r.With(aiLimiter.Middleware).Post("/analyze-url", api.TemplateAnalyzeURL)
			r.Post("/{id}/activate", api.TemplateActivate)
			r.Post("/{id}/preview", api.TemplatePreview)
			r.Delete("/{id}", api.TemplateDelete)
		})

		r.With(aiLimiter.Middleware).Post("/generate", api.Generate)

		r.Route("/article", func(r chi.Router) {
			r.Get("/", api.CurrentArticle)
			r.Put("/", api.UpdateArticle)
		})

		r.Post("/publish", api.Publish)
		r.Route("/articles", func(r chi.Router) {
			r.Get("/", api.PublishedList)
			r.Get("/{id}", api.PublishedGet)
			r.Delete("/{id}", api.PublishedDelete)
		})

		r.Route("/library", func(r chi.Router) {
			r.Get("/", api.LibraryList)
			r.Post("/", api.LibraryCreate)
			r.Delete("/{id}", api.LibraryDelete)
		})
	})

	// Public share pages.
	r.Get("/p/{id}", api.SharePage)

	return r
}
