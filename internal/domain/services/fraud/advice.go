package fraud

import "callguard-lab/internal/domain/models"

const (
	maxAdvices = 6
	maxReasons = 8
)

// fallbackAdvice is the single guaranteed advice string; the list a
// caller receives is never empty.
const fallbackAdvice = "請透過 165 反詐騙專線查證來電內容"

var tierAdvice = map[models.Severity][]string{
	models.SeverityHigh: {
		"請立即結束通話與所有操作",
		"請勿提供任何驗證碼或帳戶資訊",
		"建議改由本人主動撥打 165 或銀行客服查證",
	},
	models.SeverityMedium: {
		"請避免提供個資或驗證碼並保留紀錄",
		"建議撥打 165 或銀行客服確認",
	},
	models.SeverityLow: {
		"若仍有疑慮，建議致電 165 反詐騙或聯繫銀行客服進一步查證",
	},
}

// BuildAdvice assembles the final advice list. External advice comes
// first; when the external classifier supplied fewer than two usable
// strings, curated per-category advice (priority order, first three
// matched categories) and then severity-tier defaults pad the list.
func BuildAdvice(severity models.Severity, match MatchResult, external []string) []string {
	out := make([]string, 0, maxAdvices)
	out = appendUnique(out, external, maxAdvices)

	if len(out) < 2 {
		count := 0
		for _, key := range scamTypePriority {
			if count >= 3 {
				break
			}
			if !match.HasCategory(key) {
				continue
			}
			count++
			out = appendUnique(out, adviceFor(key), maxAdvices)
		}
		out = appendUnique(out, tierAdvice[severity], maxAdvices)
	}

	if len(out) == 0 {
		out = append(out, fallbackAdvice)
	}
	return out
}

// appendUnique appends non-empty strings not already present, up to cap.
func appendUnique(dst []string, src []string, limit int) []string {
	for _, s := range src {
		if s == "" || len(dst) >= limit {
			continue
		}
		dup := false
		for _, have := range dst {
			if have == s {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, s)
		}
	}
	return dst
}
