package fraud

import "callguard-lab/internal/domain/models"

// MatchResult holds the category and action keys detected in one text.
// Both slices follow the rule table order and contain no duplicates.
type MatchResult struct {
	Categories []models.CategoryKey
	Actions    []models.ActionKey
}

// HasCategory reports whether a specific category matched.
func (m MatchResult) HasCategory(key models.CategoryKey) bool {
	for _, c := range m.Categories {
		if c == key {
			return true
		}
	}
	return false
}

// Empty reports whether nothing matched at all.
func (m MatchResult) Empty() bool {
	return len(m.Categories) == 0 && len(m.Actions) == 0
}

// Match evaluates every category and action rule against normalized
// text. It holds no state, so concurrent calls are safe. Any input,
// including empty, yields a valid (possibly empty) result.
func Match(normalized string) MatchResult {
	var res MatchResult
	for _, r := range categoryRules {
		if r.Pattern.MatchString(normalized) {
			res.Categories = append(res.Categories, r.Key)
		}
	}
	for _, r := range actionRules {
		if r.Pattern.MatchString(normalized) {
			res.Actions = append(res.Actions, r.Key)
		}
	}
	return res
}
