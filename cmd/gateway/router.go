package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/mind-engage/verifytoken/internal/api/http"
	"github.com/mind-engage/verifytoken/internal/config"
	"github.com/mind-engage/verifytoken/internal/metrics"
	"github.com/mind-engage/verifytoken/internal/registry"
)

func newRouter(cfg config.Config, tokens *registry.InMemoryReplay, m *metrics.Metrics, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins(),
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         300,
	}))

	deps := api.Deps{
		Tokens:       tokens,
		Log:          log,
		PageToken:    cfg.PageToken,
		MaxBodyBytes: cfg.MaxBodyBytes,
	}
	if m != nil {
		deps.Metrics = m
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}
	api.MountTokens(r, deps)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	return r
}
