package models

import (
	"strings"
	"time"
)

// Severity is the risk level assigned to analyzed text.
// The three values form a total order: low < medium < high.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// severityRank maps each severity onto its position in the total order.
// Unknown values rank below low so malformed external input can never
// raise a risk level.
var severityRank = map[Severity]int{
	SeverityLow:    0,
	SeverityMedium: 1,
	SeverityHigh:   2,
}

// Rank returns the ordinal position of s. Unknown severities rank -1.
func (s Severity) Rank() int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return -1
}

// Valid reports whether s is one of the three defined levels.
func (s Severity) Valid() bool {
	_, ok := severityRank[s]
	return ok
}

// MaxSeverity returns the higher of a and b under the severity order.
// Invalid values are treated as below low.
func MaxSeverity(a, b Severity) Severity {
	if b.Rank() > a.Rank() {
		return b
	}
	if !a.Valid() {
		return SeverityLow
	}
	return a
}

// ParseSeverity coerces an arbitrary string to a Severity. Case and
// surrounding whitespace are ignored; unknown values coerce to low.
func ParseSeverity(s string) Severity {
	sev := Severity(strings.ToLower(strings.TrimSpace(s)))
	if sev.Valid() {
		return sev
	}
	return SeverityLow
}

// CategoryKey identifies a fraud-tactic signature detected by pattern
// matching. Categories are statically configured; there is no runtime
// creation.
type CategoryKey string

const (
	CategoryOTPHarvest           CategoryKey = "otp_harvest"
	CategoryATMOperation         CategoryKey = "atm_operation"
	CategoryRemoteControl        CategoryKey = "remote_control"
	CategorySupervisorAccount    CategoryKey = "supervisor_account"
	CategoryMoneyLaundering      CategoryKey = "money_laundering"
	CategoryFreezeThreat         CategoryKey = "freeze_threat"
	CategoryFundsTransfer        CategoryKey = "funds_transfer"
	CategoryPaymentPersonalInfo  CategoryKey = "payment_personal_info"
	CategoryLineRedirect         CategoryKey = "line_redirect"
	CategoryQRScan               CategoryKey = "qr_scan"
	CategoryUrgencySecrecy       CategoryKey = "urgency_secrecy"
	CategoryInstallApp           CategoryKey = "install_app"
	CategoryCustomsParcel        CategoryKey = "customs_parcel"
	CategoryPoliceImpersonation  CategoryKey = "police_impersonation"
	CategoryInvestmentGroup      CategoryKey = "investment_group"
	CategoryRomanceMoney         CategoryKey = "romance_money"
	CategoryRefundAnomaly        CategoryKey = "refund_anomaly"
	CategorySmallTest            CategoryKey = "small_test"
	CategoryUnfreezeInstallments CategoryKey = "unfreeze_installments"
)

// ActionKey identifies a "caller asked the victim to do X" signature.
// Actions feed scam-type fallback classification only, never the risk
// floor.
type ActionKey string

const (
	ActionProvideOTP    ActionKey = "要求提供OTP"
	ActionOperateATM    ActionKey = "要求操作ATM"
	ActionAddLine       ActionKey = "要求加LINE"
	ActionTransferFunds ActionKey = "要求匯款轉帳"
	ActionInstallRemote ActionKey = "要求安裝遠端軟體"
	ActionSafeAccount   ActionKey = "要求轉入安全專戶"
)

// SourceChannel records which upstream collaborator produced the text.
type SourceChannel string

const (
	SourceText   SourceChannel = "text"
	SourceSpeech SourceChannel = "speech"
	SourceOCR    SourceChannel = "ocr"
)

// ExternalVerdict is the validated opinion of the external generative
// classifier. It only exists in well-typed form; malformed responses
// never reach this struct.
type ExternalVerdict struct {
	IsScam  bool     `json:"is_scam"`
	Risk    Severity `json:"risk"`
	Reasons []string `json:"reasons"`
	Advices []string `json:"advices"`
}

// Analysis lists the deterministic signals matched in the text.
type Analysis struct {
	MatchedCategories []CategoryKey `json:"matched_categories"`
	ActionsRequested  []ActionKey   `json:"actions_requested"`
}

// VerdictMeta carries observability data about how the verdict was
// produced. It never influences the verdict itself.
type VerdictMeta struct {
	Source          SourceChannel `json:"source"`
	ModelConsulted  bool          `json:"model_consulted"`
	ModelLatencyMS  int64         `json:"model_latency_ms,omitempty"`
	ModelError      string        `json:"model_error,omitempty"`
	ModelErrorStage string        `json:"model_error_stage,omitempty"`
	Model           string        `json:"model,omitempty"`
	CacheHit        bool          `json:"cache_hit,omitempty"`
	TotalLatencyMS  int64         `json:"total_latency_ms"`
}

// Verdict is the final, caller-facing result of one analysis request.
// Contract guarantees: ScamType always has exactly one element, Advices
// is never empty, Risk is the severity-max of RuleFloor and the external
// risk when the classifier was consulted.
type Verdict struct {
	ID        string      `json:"id"`
	Text      string      `json:"text"`
	IsScam    bool        `json:"is_scam"`
	Risk      Severity    `json:"risk"`
	ScamType  []string    `json:"scam_type"`
	Reasons   []string    `json:"reasons"`
	Advices   []string    `json:"advices"`
	Analysis  Analysis    `json:"analysis"`
	RuleFloor Severity    `json:"rule_floor"`
	Meta      VerdictMeta `json:"meta"`
}

// AnalysisRecord is the write-once row persisted after every decision.
// Persistence is fire-and-forget; a failed write never alters a verdict.
type AnalysisRecord struct {
	CreatedAt  time.Time `json:"created_at"`
	Source     string    `json:"source"`
	Risk       string    `json:"risk"`
	IsScam     bool      `json:"is_scam"`
	Categories []string  `json:"categories"`
	Actions    []string  `json:"actions"`
	ModelUsed  bool      `json:"model_used"`
	TotalMS    int64     `json:"total_ms"`
}
