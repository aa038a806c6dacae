package schema

import (
	"strings"
	"unicode"
)

// CaseInsensitivePattern converts a literal name into a regular expression
// fragment that matches any casing of it. Every rune with distinct lower and
// upper case forms becomes a two-rune class such as [nN]; all other runes are
// copied through unchanged. The result is not anchored.
func CaseInsensitivePattern(name string) string {
	var b strings.Builder
	b.Grow(len(name) * 4)

	for _, r := range name {
		lower, upper := unicode.ToLower(r), unicode.ToUpper(r)
		if lower == upper {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('[')
		b.WriteRune(lower)
		b.WriteRune(upper)
		b.WriteByte(']')
	}

	return b.String()
}
