package fraud

import (
	"testing"

	"callguard-lab/internal/domain/models"
)

func TestScamTypePriority(t *testing.T) {
	cases := []struct {
		name string
		cats []models.CategoryKey
		want string
	}{
		{
			name: "police wins over everything",
			cats: []models.CategoryKey{models.CategorySmallTest, models.CategoryOTPHarvest, models.CategoryPoliceImpersonation},
			want: "假冒警察檢察官",
		},
		{
			name: "supervisor account over atm",
			cats: []models.CategoryKey{models.CategoryATMOperation, models.CategorySupervisorAccount},
			want: "監管帳戶／安全帳戶",
		},
		{
			name: "single category",
			cats: []models.CategoryKey{models.CategoryInvestmentGroup},
			want: "投資群組詐騙",
		},
		{
			name: "lowest priority alone",
			cats: []models.CategoryKey{models.CategorySmallTest},
			want: "小額測試轉帳",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ScamType(MatchResult{Categories: tc.cats})
			if got != tc.want {
				t.Errorf("ScamType(%v) = %q, want %q", tc.cats, got, tc.want)
			}
		})
	}
}

func TestScamTypeActionFallback(t *testing.T) {
	cases := []struct {
		name string
		acts []models.ActionKey
		want string
	}{
		{"otp action", []models.ActionKey{models.ActionProvideOTP}, "騙取簡訊驗證碼"},
		{"atm action", []models.ActionKey{models.ActionOperateATM}, "ATM 操作詐騙"},
		{"remote action", []models.ActionKey{models.ActionInstallRemote}, "遠端控制軟體"},
		{"transfer action", []models.ActionKey{models.ActionTransferFunds}, "要求匯款轉帳"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ScamType(MatchResult{Actions: tc.acts})
			if got != tc.want {
				t.Errorf("ScamType(actions=%v) = %q, want %q", tc.acts, got, tc.want)
			}
		})
	}
}

func TestScamTypeUnclassified(t *testing.T) {
	if got := ScamType(MatchResult{}); got != UnclassifiedLabel {
		t.Errorf("ScamType(empty) = %q, want %q", got, UnclassifiedLabel)
	}
}

func TestScamTypePriorityCoversAllCategories(t *testing.T) {
	inPriority := make(map[models.CategoryKey]bool, len(scamTypePriority))
	for _, k := range scamTypePriority {
		inPriority[k] = true
	}
	for _, r := range categoryRules {
		if !inPriority[r.Key] {
			t.Errorf("category %q missing from scam-type priority list", r.Key)
		}
	}
}
