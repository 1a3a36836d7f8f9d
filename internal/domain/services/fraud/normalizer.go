package fraud

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes raw transcript text before matching. NFKC
// folds fullwidth forms to their ASCII equivalents, which matters for
// Taiwanese transcripts that mix ＡＴＭ and ATM or １６５ and 165.
// The result is lowercase with runs of whitespace collapsed to a
// single space and outer whitespace trimmed.
func Normalize(text string) string {
	s := norm.NFKC.String(text)
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}
