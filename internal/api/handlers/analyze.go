package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"callguard-lab/internal/domain/models"
	"callguard-lab/internal/domain/services/fraud"
	"callguard-lab/internal/infrastructure/cache"
	"callguard-lab/internal/metrics"
)

const maxBatchSize = 50

// AnalyzeTextRequest is the request body for single-text analysis.
type AnalyzeTextRequest struct {
	Text   string `json:"text"`
	Source string `json:"source,omitempty"`
}

// AnalyzeBatchRequest is the request body for batch analysis.
type AnalyzeBatchRequest struct {
	Items []AnalyzeTextRequest `json:"items"`
}

// AnalyzeBatchResponse wraps per-item verdicts.
type AnalyzeBatchResponse struct {
	Results []*models.Verdict `json:"results"`
}

// AnalyzeText handles POST /api/v1/analyze/text.
func (h *Handlers) AnalyzeText(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	v := h.analyzeOne(r, req)
	h.respondJSON(w, http.StatusOK, v)
}

// AnalyzeBatch handles POST /api/v1/analyze/batch.
func (h *Handlers) AnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Items) == 0 {
		h.respondError(w, http.StatusBadRequest, "items is required")
		return
	}
	if len(req.Items) > maxBatchSize {
		h.respondError(w, http.StatusBadRequest, "batch size exceeds limit of 50")
		return
	}

	resp := AnalyzeBatchResponse{Results: make([]*models.Verdict, 0, len(req.Items))}
	for _, item := range req.Items {
		resp.Results = append(resp.Results, h.analyzeOne(r, item))
	}
	h.respondJSON(w, http.StatusOK, resp)
}

// analyzeOne runs one text through the verdict cache and the engine.
// Empty text is a valid request and yields a low-risk verdict.
func (h *Handlers) analyzeOne(r *http.Request, req AnalyzeTextRequest) *models.Verdict {
	start := time.Now()
	ctx := r.Context()
	source := parseSource(req.Source)

	normalized := fraud.Normalize(req.Text)
	cacheKey := cache.VerdictKey(normalized)

	ttl := h.deps.Config.Engine.VerdictCacheTTL
	if h.deps.Cache != nil && ttl > 0 && normalized != "" {
		if cached, err := h.deps.Cache.GetVerdict(ctx, cacheKey); err != nil {
			h.log.Warn().Err(err).Msg("verdict cache lookup failed")
		} else if cached != nil {
			metrics.CacheHits.WithLabelValues("hit").Inc()
			refreshCachedVerdict(cached, source, start)
			return cached
		} else {
			metrics.CacheHits.WithLabelValues("miss").Inc()
		}
	}

	v := h.deps.Engine.Analyze(ctx, req.Text, source)

	if h.deps.Cache != nil && ttl > 0 && normalized != "" {
		if err := h.deps.Cache.SetVerdict(ctx, cacheKey, v, ttl); err != nil {
			h.log.Warn().Err(err).Msg("verdict cache store failed")
		}
	}
	return v
}

func parseSource(s string) models.SourceChannel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "speech":
		return models.SourceSpeech
	case "ocr":
		return models.SourceOCR
	default:
		return models.SourceText
	}
}

// refreshCachedVerdict resets the per-request fields on a cache-served
// verdict; the classification is reused, the request identity is not.
func refreshCachedVerdict(v *models.Verdict, source models.SourceChannel, start time.Time) {
	v.ID = uuid.NewString()
	v.Meta.Source = source
	v.Meta.CacheHit = true
	v.Meta.TotalLatencyMS = time.Since(start).Milliseconds()
}
