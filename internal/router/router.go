// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// lingopress API. Routes are split into a public group and an admin group
// guarded by the API key.
package router

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"lingopress/internal/handlers"
	"lingopress/internal/middleware"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps are the handler groups and guards the router mounts.
type Deps struct {
	Public  *handlers.Public
	Admin   *handlers.Admin
	Sitemap *handlers.Sitemap

	// BlogLimiter throttles article detail requests, which may trigger a
	// machine translation. Nil disables throttling.
	BlogLimiter *middleware.RateLimiter
	AdminAPIKey string
	DB          Pinger
}

// New creates and returns the configured Chi router.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusNotFound, map[string]string{"error": "Not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
	})

	r.Get("/health", healthHandler(d.DB))

	r.Route("/api", func(r chi.Router) {
		r.Get("/articles", d.Public.ListArticles)
		r.Group(func(r chi.Router) {
			if d.BlogLimiter != nil {
				r.Use(d.BlogLimiter.Middleware)
			}
			r.Get("/blog/{slug}", d.Public.Article)
		})
	})

	r.Get("/sitemap/{locale}.xml", d.Sitemap.ServeLocale)

	r.Route("/admin/api/articles", func(r chi.Router) {
		r.Use(middleware.RequireAPIKey(d.AdminAPIKey))
		r.Post("/", d.Admin.CreateArticle)
		r.Post("/batch", d.Admin.SaveBatch)
		r.Get("/{slug}", d.Admin.GetArticle)
		r.Patch("/{slug}", d.Admin.UpdateArticle)
		r.Delete("/{slug}", d.Admin.DeleteArticle)
	})

	return r
}

// healthHandler reports ok when db answers a ping within two seconds. A nil
// db is always healthy.
func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				slog.Warn("health check failed", "error", err)
				writeStatus(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeStatus(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func writeStatus(w http.ResponseWriter, status int, body map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
