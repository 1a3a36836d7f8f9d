package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"callguard-lab/internal/config"
	"callguard-lab/internal/domain/models"
	"callguard-lab/pkg/logger"
)

func testConfig(host string) config.ClassifierConfig {
	return config.ClassifierConfig{
		Enabled:        true,
		Host:           host,
		Model:          "scam-guard",
		ConnectTimeout: 2 * time.Second,
		ReadTimeout:    5 * time.Second,
		MaxPromptChars: 4000,
		NumPredict:     256,
		NumCtx:         2048,
		Seed:           42,
		TopP:           0.9,
	}
}

func newTestServer(t *testing.T, response string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.Format != "json" {
			t.Errorf("format = %q, want json", req.Format)
		}
		if req.Stream {
			t.Error("stream = true, want false")
		}
		if req.Options.Seed != 42 {
			t.Errorf("seed = %d, want 42", req.Options.Seed)
		}

		w.WriteHeader(status)
		json.NewEncoder(w).Encode(generateResponse{Response: response})
	}))
}

func TestClassifySuccess(t *testing.T) {
	raw := `{"is_scam":true,"risk":"high","reasons":["要求操作ATM"],"advices":["請掛斷電話"]}`
	srv := newTestServer(t, raw, http.StatusOK)
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), logger.NewNop())
	got, err := c.Classify(context.Background(), "請到atm操作")
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if !got.IsScam {
		t.Error("is_scam = false, want true")
	}
	if got.Risk != models.SeverityHigh {
		t.Errorf("risk = %q, want high", got.Risk)
	}
	if len(got.Reasons) != 1 || len(got.Advices) != 1 {
		t.Errorf("reasons/advices = %v / %v", got.Reasons, got.Advices)
	}
}

func TestClassifyProseWrappedJSON(t *testing.T) {
	raw := "Sure, here is my analysis: {\"is_scam\":false,\"risk\":\"low\",\"reasons\":[],\"advices\":[]} hope that helps"
	srv := newTestServer(t, raw, http.StatusOK)
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), logger.NewNop())
	got, err := c.Classify(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if got.IsScam || got.Risk != models.SeverityLow {
		t.Errorf("verdict = %+v, want not-scam low", got)
	}
}

func TestClassifyMissingFieldsIsUnusable(t *testing.T) {
	raw := `{"reasons":["something"],"advices":[]}`
	srv := newTestServer(t, raw, http.StatusOK)
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), logger.NewNop())
	_, err := c.Classify(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error for missing required fields")
	}
	s, ok := err.(interface{ Stage() string })
	if !ok || s.Stage() != "decode" {
		t.Errorf("error %v does not report decode stage", err)
	}
}

func TestClassifyRequiresAllFourKeys(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"missing advices", `{"is_scam":true,"risk":"high","reasons":["r"]}`},
		{"missing reasons", `{"is_scam":true,"risk":"high","advices":["a"]}`},
		{"missing risk", `{"is_scam":true,"reasons":[],"advices":[]}`},
		{"missing is_scam", `{"risk":"high","reasons":[],"advices":[]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(t, tc.raw, http.StatusOK)
			defer srv.Close()

			c := NewClient(testConfig(srv.URL), logger.NewNop())
			_, err := c.Classify(context.Background(), "hello")
			if err == nil {
				t.Fatal("expected error for incomplete response")
			}
			s, ok := err.(interface{ Stage() string })
			if !ok || s.Stage() != "decode" {
				t.Errorf("error %v does not report decode stage", err)
			}
		})
	}
}

func TestClassifyGarbageIsUnusable(t *testing.T) {
	srv := newTestServer(t, "no json here at all", http.StatusOK)
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), logger.NewNop())
	_, err := c.Classify(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error for non-JSON response")
	}
}

func TestClassifyNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), logger.NewNop())
	_, err := c.Classify(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error for non-200 status")
	}
	if _, ok := err.(interface{ Stage() string }); ok {
		t.Error("transport error should not report a decode stage")
	}
}

func TestClassifyUnknownRiskCoercesToLow(t *testing.T) {
	raw := `{"is_scam":true,"risk":"catastrophic","reasons":[],"advices":[]}`
	srv := newTestServer(t, raw, http.StatusOK)
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), logger.NewNop())
	got, err := c.Classify(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if got.Risk != models.SeverityLow {
		t.Errorf("risk = %q, want low for unknown value", got.Risk)
	}
}

func TestClassifyTruncatesPrompt(t *testing.T) {
	var gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		json.NewDecoder(r.Body).Decode(&req)
		gotPrompt = req.Prompt
		json.NewEncoder(w).Encode(generateResponse{Response: `{"is_scam":false,"risk":"low","reasons":[],"advices":[]}`})
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxPromptChars = 10

	long := make([]rune, 100)
	for i := range long {
		long[i] = '詐'
	}

	c := NewClient(cfg, logger.NewNop())
	if _, err := c.Classify(context.Background(), string(long)); err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if !strings.Contains(gotPrompt, strings.Repeat("詐", 10)) {
		t.Error("truncated text missing from prompt")
	}
	if strings.Contains(gotPrompt, strings.Repeat("詐", 11)) {
		t.Error("prompt was not truncated to the configured limit")
	}
}
