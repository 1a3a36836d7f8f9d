package fraud

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"lowercases ascii", "Please Provide OTP", "please provide otp"},
		{"folds fullwidth forms", "ＡＴＭ操作", "atm操作"},
		{"folds fullwidth digits", "撥打１６５", "撥打165"},
		{"collapses whitespace", "  前往   atm\t操作\n轉帳  ", "前往 atm 操作 轉帳"},
		{"keeps chinese intact", "監管帳戶", "監管帳戶"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"ＡＴＭ  操作 OTP",
		"請提供一次性密碼",
		"  mixed ＷＩＤＴＨ text  ",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}
