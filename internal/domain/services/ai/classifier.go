// Package ai implements the external generative classifier client.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"callguard-lab/internal/config"
	"callguard-lab/internal/domain/models"
	"callguard-lab/pkg/logger"
)

// systemPrompt instructs the model to answer with minified JSON only.
// The red-flag list mirrors the deterministic rule table so the model
// and the rules agree on what counts as dangerous.
const systemPrompt = "You are a Taiwan-context scam detector. If any red flag appears " +
	"(ATM operation, OTP request, adding LINE, remote control, QR scan, supervisor/safe account, customs officer, " +
	"'do not hang up', unfreeze installments, small test), set is_scam=true and risk >= medium; " +
	"if two or more high-risk flags (ATM/OTP/remote/supervisor account) appear, risk=high. " +
	`Respond ONLY with valid minified JSON: {"is_scam":bool,"risk":"high"|"medium"|"low","reasons":[string],"advices":[string]}.`

// UnusableError marks a response that arrived but could not be turned
// into a verdict (bad JSON, missing required fields).
type UnusableError struct {
	Reason string
}

func (e *UnusableError) Error() string {
	return "unusable classifier response: " + e.Reason
}

// Stage identifies which phase of the call failed.
func (e *UnusableError) Stage() string { return "decode" }

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Format  string          `json:"format"`
	Options generateOptions `json:"options"`
	Stream  bool            `json:"stream"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	NumPredict  int     `json:"num_predict"`
	NumCtx      int     `json:"num_ctx"`
	Seed        int     `json:"seed"`
}

type generateResponse struct {
	Response string `json:"response"`
}

type externalPayload struct {
	IsScam  *bool     `json:"is_scam"`
	Risk    *string   `json:"risk"`
	Reasons *[]string `json:"reasons"`
	Advices *[]string `json:"advices"`
}

// Client talks to an Ollama-compatible generate endpoint. Safe for
// concurrent use; one attempt per call, no retries.
type Client struct {
	cfg  config.ClassifierConfig
	http *http.Client
	log  *logger.Logger
}

// NewClient creates a classifier client. The connect timeout bounds
// dialing while the overall client timeout bounds the full read; local
// models legitimately take a long time to answer, so the two differ.
func NewClient(cfg config.ClassifierConfig, log *logger.Logger) *Client {
	dialer := &net.Dialer{Timeout: cfg.ConnectTimeout}
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout: cfg.ReadTimeout,
			Transport: &http.Transport{
				DialContext:         dialer.DialContext,
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
			},
		},
		log: log.WithComponent("classifier"),
	}
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.cfg.Model }

// Classify sends the text to the model and decodes its verdict. The
// returned error implements Stage() when the model answered but the
// answer was unusable.
func (c *Client) Classify(ctx context.Context, text string) (models.ExternalVerdict, error) {
	var out models.ExternalVerdict

	prompt := text
	if c.cfg.MaxPromptChars > 0 {
		runes := []rune(prompt)
		if len(runes) > c.cfg.MaxPromptChars {
			prompt = string(runes[:c.cfg.MaxPromptChars])
		}
	}

	reqBody := generateRequest{
		Model:  c.cfg.Model,
		Prompt: fmt.Sprintf("%s\nText:\n%s\n", systemPrompt, prompt),
		Format: "json",
		Options: generateOptions{
			Temperature: c.cfg.Temperature,
			TopP:        c.cfg.TopP,
			NumPredict:  c.cfg.NumPredict,
			NumCtx:      c.cfg.NumCtx,
			Seed:        c.cfg.Seed,
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return out, fmt.Errorf("failed to marshal classifier request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.Host+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return out, fmt.Errorf("failed to create classifier request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return out, fmt.Errorf("classifier request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return out, fmt.Errorf("classifier returned status %d: %s", resp.StatusCode, string(body))
	}

	var gen generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gen); err != nil {
		return out, &UnusableError{Reason: fmt.Sprintf("bad envelope: %v", err)}
	}

	return parseVerdict(gen.Response)
}

// parseVerdict decodes the model's raw text into a verdict. Models
// sometimes wrap the JSON in prose even with format=json set, so a
// failed direct decode falls back to the outermost brace window.
func parseVerdict(raw string) (models.ExternalVerdict, error) {
	var out models.ExternalVerdict
	var p externalPayload

	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		start := strings.Index(raw, "{")
		end := strings.LastIndex(raw, "}")
		if start < 0 || end <= start {
			return out, &UnusableError{Reason: "no JSON object in response"}
		}
		if err := json.Unmarshal([]byte(raw[start:end+1]), &p); err != nil {
			return out, &UnusableError{Reason: fmt.Sprintf("bad JSON: %v", err)}
		}
	}

	if p.IsScam == nil || p.Risk == nil || p.Reasons == nil || p.Advices == nil {
		return out, &UnusableError{Reason: "missing required fields is_scam/risk/reasons/advices"}
	}

	out.IsScam = *p.IsScam
	out.Risk = models.ParseSeverity(*p.Risk)
	out.Reasons = *p.Reasons
	out.Advices = *p.Advices
	return out, nil
}
