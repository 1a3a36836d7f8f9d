// Package api assembles the HTTP router.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"callguard-lab/internal/api/handlers"
	"callguard-lab/internal/api/middleware"
	"callguard-lab/internal/config"
	"callguard-lab/internal/infrastructure/cache"
	"callguard-lab/pkg/logger"
)

// NewRouter builds the chi router with the full middleware stack.
func NewRouter(cfg *config.Config, log *logger.Logger, h *handlers.Handlers, redis *cache.RedisCache) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(150 * time.Second))
	r.Use(middleware.Metrics())

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	r.Get("/health", h.Check)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimit.Enabled && redis != nil {
			r.Use(middleware.RateLimit(redis, cfg.RateLimit.RequestsPerMinute, log))
		}

		r.Route("/analyze", func(r chi.Router) {
			r.Post("/text", h.AnalyzeText)
			r.Post("/batch", h.AnalyzeBatch)
		})

		r.Route("/fraud", func(r chi.Router) {
			r.Get("/patterns", h.Patterns)
			r.Get("/stats", h.Stats)
		})
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}`))
	})

	return r
}
