package schema

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize turns a column label into its lookup key: lower case, diacritics
// stripped, everything outside [a-z0-9] removed. Normalize(Normalize(s)) == Normalize(s).
func Normalize(label string) string {
	if label == "" {
		return ""
	}

	// NFD splits 'é' into 'e' + combining acute, which the filter below drops.
	decomposed := norm.NFD.String(strings.ToLower(label))

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
