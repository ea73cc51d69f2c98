// Package slug derives URL-friendly lookup keys from titles and logins.
package slug

import (
	"strings"
	"unicode"
)

// Make converts a string into its slug form: lowercase, spaces become
// hyphens, and everything except letters, digits, underscores and hyphens
// is dropped. Cyrillic letters are kept, matching the titles this system
// actually stores.
func Make(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case r == ' ':
			b.WriteByte('-')
		case r == '-' || r == '_':
			b.WriteRune(r)
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		}
	}
	return b.String()
}
