package handlers

import (
	"net/http"
	"strconv"
	"time"
)

// Stats handles GET /api/v1/fraud/stats. The window defaults to the
// last 24 hours; ?hours=N widens it up to 30 days.
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	if h.deps.Stats == nil {
		h.respondError(w, http.StatusServiceUnavailable, "statistics unavailable")
		return
	}

	hours := 24
	if raw := r.URL.Query().Get("hours"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 24*30 {
			h.respondError(w, http.StatusBadRequest, "hours must be a positive integer up to 720")
			return
		}
		hours = n
	}

	until := time.Now().UTC()
	since := until.Add(-time.Duration(hours) * time.Hour)

	summary, err := h.deps.Stats.Summarize(r.Context(), since, until)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to summarize stats")
		h.respondError(w, http.StatusInternalServerError, "failed to query statistics")
		return
	}
	h.respondJSON(w, http.StatusOK, summary)
}
