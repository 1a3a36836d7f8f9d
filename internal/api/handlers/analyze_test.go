package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"callguard-lab/internal/config"
	"callguard-lab/internal/domain/models"
	"callguard-lab/internal/domain/services/fraud"
	"callguard-lab/pkg/logger"
)

func newTestHandlers() *Handlers {
	cfg := &config.Config{}
	cfg.App.Name = "callguard-lab"
	cfg.App.Version = "test"
	return New(Dependencies{
		Config: cfg,
		Logger: logger.NewNop(),
		Engine: fraud.NewEngine(logger.NewNop()),
	})
}

func TestAnalyzeTextHighRisk(t *testing.T) {
	h := newTestHandlers()

	body := `{"text":"我是檢察官 請把錢轉到監管專戶","source":"speech"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze/text", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.AnalyzeText(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var v models.Verdict
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if v.Risk != models.SeverityHigh || !v.IsScam {
		t.Errorf("verdict = (%q, %v), want (high, true)", v.Risk, v.IsScam)
	}
	if v.Meta.Source != models.SourceSpeech {
		t.Errorf("source = %q, want speech", v.Meta.Source)
	}
	if len(v.ScamType) != 1 {
		t.Errorf("scam_type = %v, want exactly one label", v.ScamType)
	}
}

func TestAnalyzeTextEmptyTextIsValid(t *testing.T) {
	h := newTestHandlers()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze/text", strings.NewReader(`{"text":""}`))
	rec := httptest.NewRecorder()

	h.AnalyzeText(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for empty text", rec.Code)
	}
	var v models.Verdict
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if v.Risk != models.SeverityLow || v.IsScam {
		t.Errorf("verdict = (%q, %v), want (low, false)", v.Risk, v.IsScam)
	}
}

func TestAnalyzeTextBadBody(t *testing.T) {
	h := newTestHandlers()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze/text", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	h.AnalyzeText(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAnalyzeBatch(t *testing.T) {
	h := newTestHandlers()

	payload := AnalyzeBatchRequest{Items: []AnalyzeTextRequest{
		{Text: "請提供簡訊驗證碼"},
		{Text: "明天下午開會"},
	}}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze/batch", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.AnalyzeBatch(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp AnalyzeBatchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("results = %d, want 2", len(resp.Results))
	}
	if resp.Results[0].Risk != models.SeverityHigh {
		t.Errorf("first verdict risk = %q, want high", resp.Results[0].Risk)
	}
	if resp.Results[1].Risk != models.SeverityLow {
		t.Errorf("second verdict risk = %q, want low", resp.Results[1].Risk)
	}
}

func TestAnalyzeBatchLimits(t *testing.T) {
	h := newTestHandlers()

	items := make([]AnalyzeTextRequest, maxBatchSize+1)
	for i := range items {
		items[i] = AnalyzeTextRequest{Text: "hello"}
	}
	body, _ := json.Marshal(AnalyzeBatchRequest{Items: items})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze/batch", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.AnalyzeBatch(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for oversized batch", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/analyze/batch", strings.NewReader(`{"items":[]}`))
	rec = httptest.NewRecorder()
	h.AnalyzeBatch(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for empty batch", rec.Code)
	}
}

func TestCacheServedVerdictGetsFreshRequestFields(t *testing.T) {
	cached := &models.Verdict{
		ID:   "old-id",
		Risk: models.SeverityHigh,
		Meta: models.VerdictMeta{
			Source:         models.SourceText,
			TotalLatencyMS: 1234,
		},
	}

	refreshCachedVerdict(cached, models.SourceSpeech, time.Now())

	if cached.ID == "" || cached.ID == "old-id" {
		t.Errorf("id = %q, want a fresh identifier", cached.ID)
	}
	if !cached.Meta.CacheHit {
		t.Error("cache_hit not set on cache-served verdict")
	}
	if cached.Meta.Source != models.SourceSpeech {
		t.Errorf("source = %q, want speech", cached.Meta.Source)
	}
	if cached.Meta.TotalLatencyMS == 1234 {
		t.Error("total_latency_ms carried over from the cached request")
	}
	if cached.Risk != models.SeverityHigh {
		t.Errorf("risk = %q, classification must be preserved", cached.Risk)
	}
}

func TestPatterns(t *testing.T) {
	h := newTestHandlers()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/fraud/patterns", nil)
	rec := httptest.NewRecorder()

	h.Patterns(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Count      int                  `json:"count"`
		Categories []fraud.CatalogEntry `json:"categories"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Count == 0 || len(resp.Categories) != resp.Count {
		t.Errorf("count = %d with %d categories", resp.Count, len(resp.Categories))
	}
	for _, c := range resp.Categories {
		if c.Key == "" || c.Display == "" || !c.Floor.Valid() {
			t.Errorf("incomplete catalog entry %+v", c)
		}
	}
}

func TestStatsUnavailableWithoutRepository(t *testing.T) {
	h := newTestHandlers()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/fraud/stats", nil)
	rec := httptest.NewRecorder()

	h.Stats(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503 without a stats repository", rec.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	h := newTestHandlers()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	h.Check(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "callguard-lab") {
		t.Errorf("health body missing service name: %s", rec.Body.String())
	}
}
