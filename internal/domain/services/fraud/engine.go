package fraud

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"callguard-lab/internal/domain/models"
	"callguard-lab/internal/metrics"
	"callguard-lab/pkg/logger"
)

// Classifier is the external generative classifier consulted for text
// the rules could not flag. Implementations must be safe for concurrent
// use and must honor context cancellation.
type Classifier interface {
	Classify(ctx context.Context, text string) (models.ExternalVerdict, error)
	Model() string
}

// stager is implemented by classifier errors that know which stage of
// the call failed (transport vs decode).
type stager interface {
	Stage() string
}

// Recorder persists one analysis record. Implementations must swallow
// their own errors; a failed write never alters a verdict.
type Recorder interface {
	Record(ctx context.Context, rec models.AnalysisRecord)
}

// Engine fuses the deterministic rule floor with the external
// classifier's opinion into a final verdict. It holds only read-only
// configuration, so one Engine serves all requests concurrently.
type Engine struct {
	classifier     Classifier
	recorder       Recorder
	log            *logger.Logger
	shortTextRunes int
}

// Option configures an Engine.
type Option func(*Engine)

// WithClassifier attaches an external classifier. Without one the
// engine runs rule-only, which is the degraded-but-valid mode.
func WithClassifier(c Classifier) Option {
	return func(e *Engine) { e.classifier = c }
}

// WithRecorder attaches a persistence collaborator.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithShortTextRunes overrides the short-text bump threshold.
func WithShortTextRunes(n int) Option {
	return func(e *Engine) { e.shortTextRunes = n }
}

// NewEngine creates a fusion engine.
func NewEngine(log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		log:            log.WithComponent("fraud_engine"),
		shortTextRunes: 20,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze classifies one text and returns the final verdict. It never
// returns an error: classifier failures degrade to the rule floor and
// are surfaced through the verdict metadata.
func (e *Engine) Analyze(ctx context.Context, text string, source models.SourceChannel) *models.Verdict {
	start := time.Now()

	normalized := Normalize(text)
	match := Match(normalized)
	floor := Floor(normalized, match, e.shortTextRunes)

	v := &models.Verdict{
		ID:       uuid.NewString(),
		Text:     text,
		Risk:     floor,
		ScamType: []string{ScamType(match)},
		Analysis: models.Analysis{
			MatchedCategories: match.Categories,
			ActionsRequested:  match.Actions,
		},
		RuleFloor: floor,
		Meta: models.VerdictMeta{
			Source: source,
		},
	}

	var external models.ExternalVerdict
	if floor != models.SeverityLow {
		// Rules alone are conclusive at medium and high; consulting
		// the model here only adds latency and a chance to contradict
		// a confident match.
		v.IsScam = true
	} else if e.classifier != nil {
		v.Meta.Model = e.classifier.Model()
		callStart := time.Now()
		ext, err := e.classifier.Classify(ctx, text)
		v.Meta.ModelLatencyMS = time.Since(callStart).Milliseconds()
		if err != nil {
			stage := "transport"
			if s, ok := err.(stager); ok {
				stage = s.Stage()
			}
			v.Meta.ModelError = err.Error()
			v.Meta.ModelErrorStage = stage
			metrics.ClassifierErrors.WithLabelValues(stage).Inc()
			e.log.Warn().Err(err).Str("stage", stage).Msg("external classifier unavailable, degrading to rule floor")
		} else {
			v.Meta.ModelConsulted = true
			external = ext
			metrics.ClassifierCalls.Inc()
			metrics.ClassifierLatency.Observe(time.Since(callStart).Seconds())
		}
	}

	if v.Meta.ModelConsulted {
		v.Risk = models.MaxSeverity(floor, external.Risk)
		v.IsScam = external.IsScam || v.Risk != models.SeverityLow
	}

	v.Reasons = e.buildReasons(match, floor, external)
	v.Advices = BuildAdvice(v.Risk, match, external.Advices)
	v.Meta.TotalLatencyMS = time.Since(start).Milliseconds()

	metrics.VerdictsTotal.WithLabelValues(string(v.Risk)).Inc()

	if e.recorder != nil {
		rec := models.AnalysisRecord{
			CreatedAt:  start.UTC(),
			Source:     string(source),
			Risk:       string(v.Risk),
			IsScam:     v.IsScam,
			Categories: categoryCodes(match.Categories),
			Actions:    actionCodes(match.Actions),
			ModelUsed:  v.Meta.ModelConsulted,
			TotalMS:    v.Meta.TotalLatencyMS,
		}
		go e.recorder.Record(context.WithoutCancel(ctx), rec)
	}

	return v
}

func (e *Engine) buildReasons(match MatchResult, floor models.Severity, external models.ExternalVerdict) []string {
	reasons := make([]string, 0, maxReasons)

	if len(match.Categories) > 0 {
		names := make([]string, 0, len(match.Categories))
		for _, key := range match.Categories {
			if name, ok := displayFor(key); ok {
				names = append(names, name)
			}
		}
		reasons = append(reasons, "命中類別："+strings.Join(names, "、"))
	}

	reasons = appendUnique(reasons, external.Reasons, maxReasons)

	switch floor {
	case models.SeverityHigh:
		reasons = appendUnique(reasons, []string{"命中高風險關鍵規則"}, maxReasons)
	case models.SeverityMedium:
		reasons = appendUnique(reasons, []string{"規則判定為中度風險"}, maxReasons)
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "未命中任何詐騙特徵")
	}
	return reasons
}

func categoryCodes(keys []models.CategoryKey) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = string(k)
	}
	return out
}

func actionCodes(keys []models.ActionKey) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = string(k)
	}
	return out
}
