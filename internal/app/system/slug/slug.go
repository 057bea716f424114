// Package slug derives URL-safe identifiers from titles.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// MaxLen bounds generated slugs.
const MaxLen = 120

// Make lowercases s, strips diacritics, replaces every run of characters
// outside [a-z0-9] with a single hyphen and trims leading/trailing hyphens.
// The result is deterministic; it does not guarantee uniqueness.
func Make(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	b.Grow(len(s))
	pendingHyphen := false
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	out := b.String()
	if len(out) > MaxLen {
		out = strings.TrimRight(out[:MaxLen], "-")
	}
	return out
}

// Valid reports whether s already has slug shape.
func Valid(s string) bool {
	return s != "" && Make(s) == s
}
