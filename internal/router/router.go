// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for
// biolink. Routes are split into the public page with its JSON API and
// the passcode-gated admin area.
package router

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/klauspost/compress/gzhttp"

	"biolink/internal/handlers"
	"biolink/internal/metrics"
	"biolink/internal/middleware"
	"biolink/internal/session"
	"biolink/web"
)

// Options configures optional parts of the router.
type Options struct {
	// Metrics serves /metrics when set.
	Metrics http.Handler

	// Secure marks cookies HTTPS-only.
	Secure bool

	// WriteLimit caps public write requests per client per minute.
	WriteLimit int
}

// New creates the configured chi router wrapped in gzip compression.
func New(sessionStore *session.Store, public *handlers.Public, admin *handlers.Admin, rec metrics.Recorder, opts Options) http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Observe(rec))
	r.Use(middleware.SecureHeaders)

	// Health check and metrics: no session, no CSRF.
	r.Get("/health", healthHandler)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}
	r.Handle("/static/*", staticHandler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewCSRF(opts.Secure))
		r.Use(middleware.LoadSession(sessionStore))

		r.Get("/", public.Page)
		r.Get("/go/{id}", public.Click)
		r.Get("/share.png", public.ShareQR)

		r.Route("/api", func(r chi.Router) {
			r.Get("/profile", public.Profile)
			r.Get("/reactions", public.Reactions)
			r.Get("/comments", public.Comments)

			r.Group(func(r chi.Router) {
				limit := opts.WriteLimit
				if limit <= 0 {
					limit = 30
				}
				r.Use(middleware.NewRateLimiter(limit, time.Minute).Middleware)
				r.Post("/visit", public.Visit)
				r.Post("/reactions/{emoji}", public.React)
				r.Post("/comments", public.PostComment)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			// Passcode gate: reachable without an unlocked session.
			r.Get("/prompt", admin.Prompt)
			r.With(middleware.NewRateLimiter(10, time.Minute).Middleware).Post("/unlock", admin.Unlock)
			r.Post("/lock", admin.Lock)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)

				r.Get("/", admin.Dashboard)
				r.Get("/tab/{tab}", admin.Tab)
				r.Get("/traffic", admin.Traffic)
				r.Post("/close", admin.Close)
				r.Get("/report", admin.Report)

				r.Post("/profile", admin.SaveProfile)
				r.Post("/avatar", admin.UploadAvatar)
				r.Post("/theme", admin.SetTheme)

				r.Post("/links", admin.SaveLinks)
				r.Post("/links/{id}/reset", admin.ResetLink)

				r.Delete("/comments/{id}", admin.DeleteComment)

				r.Post("/reset", admin.Reset)
				r.Post("/purge", admin.Purge)
			})
		})
	})

	return gzhttp.GzipHandler(r)
}

// staticHandler serves the embedded web/static tree under /static/.
func staticHandler() http.Handler {
	sub, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic(err) // embedded path is fixed at build time
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
