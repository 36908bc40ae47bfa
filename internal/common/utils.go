package common

import (
	"strings"
	"unicode"
)

// TitleCase upper-cases the first letter of every word and lower-cases the
// rest. A word starts after any non-letter rune, so "light rain" becomes
// "Light Rain".
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	prevLetter := false
	for _, r := range s {
		if prevLetter {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(unicode.ToUpper(r))
		}
		prevLetter = unicode.IsLetter(r)
	}
	return b.String()
}
