// Package handlers implements the HTTP API endpoints.
package handlers

import (
	"encoding/json"
	"net/http"

	"callguard-lab/internal/config"
	"callguard-lab/internal/domain/services/fraud"
	"callguard-lab/internal/infrastructure/cache"
	"callguard-lab/internal/infrastructure/database"
	"callguard-lab/internal/infrastructure/database/repository"
	"callguard-lab/pkg/logger"
)

// Dependencies holds everything the handlers need.
type Dependencies struct {
	Config *config.Config
	Logger *logger.Logger
	Engine *fraud.Engine
	Cache  *cache.RedisCache
	Stats  *repository.StatsRepository
	DB     *database.Database
}

// Handlers bundles all HTTP handlers.
type Handlers struct {
	deps Dependencies
	log  *logger.Logger
}

// New creates the handler set.
func New(deps Dependencies) *Handlers {
	return &Handlers{
		deps: deps,
		log:  deps.Logger.WithComponent("handlers"),
	}
}

// respondJSON writes a JSON response with the given status code.
func (h *Handlers) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Error().Err(err).Msg("failed to encode response")
	}
}

// respondError writes a JSON error response.
func (h *Handlers) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
