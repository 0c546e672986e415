package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mangashelf/internal/catalog"
	"mangashelf/internal/config"
	"mangashelf/internal/httpx"
	"mangashelf/internal/library"
	"mangashelf/internal/recommend"
	"mangashelf/internal/user"
)

type routerDeps struct {
	cfg       *config.Config
	library   *library.HTTPHandler
	catalog   *catalog.HTTPHandler
	recommend *recommend.HTTPHandler
	users     *user.HTTPHandler // optional
	accounts  func(ctx context.Context, id string) (bool, error)
	limiter   *httpx.RateLimitMiddleware
	ready     func(ctx context.Context) error
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(httpx.RequestIDMiddleware)
	r.Use(httpx.AccessLogMiddleware)
	r.Use(httpx.RecoveryMiddleware)
	r.Use(httpx.SecurityHeadersMiddleware)
	r.Use(httpx.CORSMiddleware(d.cfg.Server.AllowedOrigins))
	r.Use(httpx.RequestSizeLimitMiddleware(d.cfg.Server.MaxBodyBytes))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := d.ready(ctx); err != nil {
			httpx.JSONError(w, r, http.StatusServiceUnavailable, "NOT_READY", "Storage not ready", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(d.limiter.Middleware)
		r.Use(httpx.OptionalAuthMiddleware(d.cfg.Auth.JWTSecret))
		if d.accounts != nil {
			r.Use(httpx.ProtectAccountScopes(d.accounts))
		}

		r.Route("/manga", func(r chi.Router) {
			r.Get("/", d.library.List)
			r.Post("/", d.library.Create)
			r.Get("/{id}", d.library.Get)
			r.Patch("/{id}", d.library.Update)
			r.Delete("/{id}", d.library.Delete)
		})
		r.Get("/catalog/search", d.catalog.Search)
		r.Get("/recommendations", d.recommend.Get)

		if d.users != nil {
			r.Post("/users/register", d.users.Register)
			r.Post("/users/login", d.users.Login)
			r.With(httpx.RequireAuth).Get("/me", d.users.Me)
		}
	})

	return r
}
