package handlers

import (
	"net/http"
	"time"
)

// Check handles GET /health (liveness).
func (h *Handlers) Check(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": h.deps.Config.App.Name,
		"version": h.deps.Config.App.Version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready handles GET /ready (readiness). Degraded dependencies are
// reported per-component; the service is ready as long as the engine
// itself can answer, since verdicts survive both Redis and Postgres
// outages.
func (h *Handlers) Ready(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)

	if h.deps.DB != nil {
		if err := h.deps.DB.Ping(r.Context()); err != nil {
			checks["database"] = "unavailable: " + err.Error()
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "disabled"
	}

	if h.deps.Cache != nil {
		if err := h.deps.Cache.Ping(r.Context()); err != nil {
			checks["redis"] = "unavailable: " + err.Error()
		} else {
			checks["redis"] = "ok"
		}
	} else {
		checks["redis"] = "disabled"
	}

	h.respondJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
		"checks": checks,
	})
}
