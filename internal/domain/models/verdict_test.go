package models

import "testing"

func TestMaxSeverity(t *testing.T) {
	cases := []struct {
		a, b, want Severity
	}{
		{SeverityLow, SeverityLow, SeverityLow},
		{SeverityLow, SeverityMedium, SeverityMedium},
		{SeverityMedium, SeverityHigh, SeverityHigh},
		{SeverityHigh, SeverityLow, SeverityHigh},
		{SeverityHigh, SeverityHigh, SeverityHigh},
	}
	for _, tc := range cases {
		if got := MaxSeverity(tc.a, tc.b); got != tc.want {
			t.Errorf("MaxSeverity(%q, %q) = %q, want %q", tc.a, tc.b, got, tc.want)
		}
		// max is commutative
		if got := MaxSeverity(tc.b, tc.a); got != tc.want {
			t.Errorf("MaxSeverity(%q, %q) = %q, want %q", tc.b, tc.a, got, tc.want)
		}
	}
}

func TestMaxSeverityLowIsIdentity(t *testing.T) {
	for _, s := range []Severity{SeverityLow, SeverityMedium, SeverityHigh} {
		if got := MaxSeverity(s, SeverityLow); got != s {
			t.Errorf("MaxSeverity(%q, low) = %q, want %q", s, got, s)
		}
	}
}

func TestParseSeverity(t *testing.T) {
	cases := []struct {
		in   string
		want Severity
	}{
		{"high", SeverityHigh},
		{"HIGH", SeverityHigh},
		{" Medium ", SeverityMedium},
		{"low", SeverityLow},
		{"critical", SeverityLow},
		{"", SeverityLow},
	}
	for _, tc := range cases {
		if got := ParseSeverity(tc.in); got != tc.want {
			t.Errorf("ParseSeverity(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
