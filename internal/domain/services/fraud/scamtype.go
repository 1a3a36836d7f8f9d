package fraud

import (
	"strings"

	"callguard-lab/internal/domain/models"
)

// UnclassifiedLabel is returned when no category or action gives any
// signal about the scam tactic in play.
const UnclassifiedLabel = "未明確分類（需更多資訊）"

// scamTypePriority orders categories from most severe or most specific
// to most generic. The first matched key in this order names the scam.
var scamTypePriority = []models.CategoryKey{
	models.CategoryPoliceImpersonation,
	models.CategoryMoneyLaundering,
	models.CategorySupervisorAccount,
	models.CategoryFreezeThreat,
	models.CategoryPaymentPersonalInfo,
	models.CategoryATMOperation,
	models.CategoryUnfreezeInstallments,
	models.CategoryRemoteControl,
	models.CategoryOTPHarvest,
	models.CategoryInvestmentGroup,
	models.CategoryRomanceMoney,
	models.CategoryCustomsParcel,
	models.CategoryRefundAnomaly,
	models.CategoryFundsTransfer,
	models.CategoryInstallApp,
	models.CategoryQRScan,
	models.CategoryLineRedirect,
	models.CategoryUrgencySecrecy,
	models.CategorySmallTest,
}

// actionFallbacks maps keyword fragments found in matched action keys to
// the category whose display name best labels the tactic. Used only when
// no category matched at all.
var actionFallbacks = []struct {
	substr string
	cat    models.CategoryKey
}{
	{"otp", models.CategoryOTPHarvest},
	{"atm", models.CategoryATMOperation},
	{"遠端", models.CategoryRemoteControl},
	{"匯款", models.CategoryFundsTransfer},
	{"安全專戶", models.CategorySupervisorAccount},
}

// ScamType picks exactly one display label for a match result. Callers
// always get one label; ambiguous evidence resolves by priority and no
// evidence resolves to UnclassifiedLabel.
func ScamType(match MatchResult) string {
	for _, key := range scamTypePriority {
		if match.HasCategory(key) {
			if name, ok := displayFor(key); ok {
				return name
			}
		}
	}
	for _, act := range match.Actions {
		lowered := strings.ToLower(string(act))
		for _, fb := range actionFallbacks {
			if strings.Contains(lowered, fb.substr) {
				if name, ok := displayFor(fb.cat); ok {
					return name
				}
			}
		}
	}
	return UnclassifiedLabel
}
