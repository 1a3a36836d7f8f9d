package handlers

import (
	"net/http"

	"callguard-lab/internal/domain/services/fraud"
)

// Patterns handles GET /api/v1/fraud/patterns. It exposes the category
// catalog (keys, display names, floors) for client UIs; the underlying
// regular expressions stay server-side.
func (h *Handlers) Patterns(w http.ResponseWriter, r *http.Request) {
	catalog := fraud.CategoryCatalog()
	h.respondJSON(w, http.StatusOK, map[string]any{
		"count":      len(catalog),
		"categories": catalog,
		"actions":    fraud.ActionCatalog(),
	})
}
