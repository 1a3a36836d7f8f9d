package fraud

import (
	"unicode/utf8"

	"callguard-lab/internal/domain/models"
)

// compoundPairs lists category co-occurrences treated as
// higher-confidence fraud signatures than any single category. Each
// pair forces the floor to high regardless of the individual tiers.
var compoundPairs = []struct {
	a models.CategoryKey
	b []models.CategoryKey
}{
	{models.CategoryFundsTransfer, []models.CategoryKey{models.CategorySupervisorAccount}},
	{models.CategoryMoneyLaundering, []models.CategoryKey{models.CategoryFreezeThreat, models.CategoryFundsTransfer}},
	{models.CategoryPoliceImpersonation, []models.CategoryKey{models.CategoryFundsTransfer, models.CategoryOTPHarvest}},
	{models.CategoryPaymentPersonalInfo, []models.CategoryKey{models.CategoryFundsTransfer, models.CategoryOTPHarvest}},
}

// Floor reduces a match result to the minimum severity the rules
// assert. shortTextRunes is the threshold below which any hit on an
// under-described utterance is bumped to medium; transcripts cut off
// mid-call are common and a truncated hit is still a hit.
func Floor(normalized string, match MatchResult, shortTextRunes int) models.Severity {
	floor := models.SeverityLow
	highHits := 0
	for _, c := range match.Categories {
		tier := floorFor(c)
		floor = models.MaxSeverity(floor, tier)
		if tier == models.SeverityHigh {
			highHits++
		}
	}

	// Two independently high-tier signals are conclusive on their own.
	if highHits >= 2 {
		floor = models.SeverityHigh
	}

	// Curated pairs override individual tiers. Kept separate from the
	// high-hit count rule above; the two overlap but neither subsumes
	// the other.
	for _, p := range compoundPairs {
		if !match.HasCategory(p.a) {
			continue
		}
		for _, other := range p.b {
			if match.HasCategory(other) {
				floor = models.SeverityHigh
			}
		}
	}

	if floor == models.SeverityLow && !match.Empty() &&
		shortTextRunes > 0 && utf8.RuneCountInString(normalized) < shortTextRunes {
		floor = models.SeverityMedium
	}

	return floor
}
