// Package normalize implements the deterministic half of job intake: casing,
// work categorisation, address canonicalisation and schedule resolution.
// Every function here is pure and safe for concurrent use.
package normalize

import (
	"strings"
	"unicode"
)

// TitleCase uppercases the first rune of every whitespace-separated word and
// leaves all other runes untouched. Nothing is ever lowercased, so
// "jOHN sMITH" becomes "JOHN SMITH". Whitespace is preserved as is.
func TitleCase(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	atWordStart := true
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			atWordStart = true
		case atWordStart:
			r = unicode.ToUpper(r)
			atWordStart = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
