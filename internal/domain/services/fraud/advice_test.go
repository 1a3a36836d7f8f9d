package fraud

import (
	"reflect"
	"testing"

	"callguard-lab/internal/domain/models"
)

func TestBuildAdviceExternalFirst(t *testing.T) {
	external := []string{"外部建議一", "外部建議二"}
	got := BuildAdvice(models.SeverityHigh, MatchResult{}, external)
	if len(got) < 2 || got[0] != "外部建議一" || got[1] != "外部建議二" {
		t.Errorf("external advice not first: %v", got)
	}
	// Two external strings are enough; no padding should follow.
	if !reflect.DeepEqual(got, external) {
		t.Errorf("BuildAdvice = %v, want %v", got, external)
	}
}

func TestBuildAdvicePadsWhenExternalSparse(t *testing.T) {
	match := MatchResult{Categories: []models.CategoryKey{models.CategoryOTPHarvest}}
	got := BuildAdvice(models.SeverityHigh, match, []string{"唯一的外部建議"})
	if got[0] != "唯一的外部建議" {
		t.Errorf("external advice not first: %v", got)
	}
	if len(got) < 3 {
		t.Errorf("expected category and tier advice to pad the list, got %v", got)
	}
}

func TestBuildAdviceTierDefaults(t *testing.T) {
	for _, sev := range []models.Severity{models.SeverityLow, models.SeverityMedium, models.SeverityHigh} {
		got := BuildAdvice(sev, MatchResult{}, nil)
		want := tierAdvice[sev]
		if !reflect.DeepEqual(got, want) {
			t.Errorf("BuildAdvice(%q, empty) = %v, want %v", sev, got, want)
		}
	}
}

func TestBuildAdviceDedupAndCap(t *testing.T) {
	dup := []string{"同一句話", "同一句話", "同一句話", "同一句話", "同一句話"}
	match := MatchResult{Categories: []models.CategoryKey{
		models.CategoryOTPHarvest,
		models.CategoryATMOperation,
		models.CategorySupervisorAccount,
	}}
	got := BuildAdvice(models.SeverityHigh, match, dup)

	if len(got) > maxAdvices {
		t.Errorf("advice list length %d exceeds cap %d: %v", len(got), maxAdvices, got)
	}
	seen := make(map[string]bool, len(got))
	for _, a := range got {
		if a == "" {
			t.Error("empty advice string in list")
		}
		if seen[a] {
			t.Errorf("duplicate advice %q in %v", a, got)
		}
		seen[a] = true
	}
}

func TestBuildAdviceCategoryLimit(t *testing.T) {
	// Only the first three matched categories contribute advice.
	match := MatchResult{Categories: []models.CategoryKey{
		models.CategoryPoliceImpersonation,
		models.CategoryMoneyLaundering,
		models.CategorySupervisorAccount,
		models.CategoryOTPHarvest,
	}}
	got := BuildAdvice(models.SeverityLow, match, nil)
	for _, a := range got {
		if a == adviceFor(models.CategoryOTPHarvest)[0] {
			t.Errorf("fourth category's advice leaked into %v", got)
		}
	}
}

func TestBuildAdviceNeverEmpty(t *testing.T) {
	got := BuildAdvice(models.SeverityLow, MatchResult{}, []string{"", "", ""})
	if len(got) == 0 {
		t.Fatal("advice list is empty")
	}
}
