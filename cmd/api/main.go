package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"callguard-lab/internal/api"
	"callguard-lab/internal/api/handlers"
	"callguard-lab/internal/config"
	"callguard-lab/internal/domain/services/ai"
	"callguard-lab/internal/domain/services/fraud"
	"callguard-lab/internal/infrastructure/cache"
	"callguard-lab/internal/infrastructure/database"
	"callguard-lab/internal/infrastructure/database/repository"
	"callguard-lab/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logger.Level,
		Format: cfg.Logger.Format,
	})
	log.Info().
		Str("service", cfg.App.Name).
		Str("version", cfg.App.Version).
		Str("environment", cfg.App.Environment).
		Msg("starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Both Postgres and Redis are optional at startup: the engine keeps
	// issuing verdicts without persistence or caching.
	var db *database.Database
	var stats *repository.StatsRepository
	if db, err = database.New(ctx, cfg.Database); err != nil {
		log.Warn().Err(err).Msg("database unavailable, continuing without persistence")
		db = nil
	} else {
		defer db.Close()
		stats = repository.NewStatsRepository(db, log)
		if err := stats.EnsureSchema(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to ensure stats schema")
		}
	}

	var redis *cache.RedisCache
	if redis, err = cache.New(ctx, cfg.Redis); err != nil {
		log.Warn().Err(err).Msg("redis unavailable, continuing without cache and rate limiting")
		redis = nil
	} else {
		defer redis.Close()
	}

	engineOpts := []fraud.Option{
		fraud.WithShortTextRunes(cfg.Engine.ShortTextRunes),
	}
	if cfg.Classifier.Enabled {
		engineOpts = append(engineOpts, fraud.WithClassifier(ai.NewClient(cfg.Classifier, log)))
	}
	if stats != nil {
		engineOpts = append(engineOpts, fraud.WithRecorder(stats))
	}
	engine := fraud.NewEngine(log, engineOpts...)

	h := handlers.New(handlers.Dependencies{
		Config: cfg,
		Logger: log,
		Engine: engine,
		Cache:  redis,
		Stats:  stats,
		DB:     db,
	})

	router := api.NewRouter(cfg, log, h, redis)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		log.Error().Err(err).Msg("http server failed")
		os.Exit(1)
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	log.Info().Msg("stopped")
}
