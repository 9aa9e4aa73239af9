package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes text and removes combining marks, so "Café" becomes
// "Cafe" before the character filter runs.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Component sanitizes one free-text filename component: diacritics are
// stripped, every character outside [A-Za-z0-9 -_] is removed, and internal
// whitespace runs collapse into a single hyphen.
func Component(value string) string {
	stripped, _, err := transform.String(stripMarks, value)
	if err != nil {
		// Malformed input falls through unstripped; the character filter
		// below still guarantees a safe result.
		stripped = value
	}

	var b strings.Builder
	b.Grow(len(stripped))
	for _, r := range stripped {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), "-")
}

// componentOr sanitizes value, substituting fallback when value is blank
// before sanitization.
func componentOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		value = fallback
	}
	out := Component(value)
	if out == "" {
		out = Component(fallback)
	}
	return out
}
