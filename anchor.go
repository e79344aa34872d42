package tipbook

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// asciiFold decomposes accented characters and strips combining marks,
// so "Régression" slugs to "regression" rather than losing the letter.
var asciiFold = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Anchor derives a URL-fragment-safe slug from a title: lower-case,
// whitespace runs collapse to a single hyphen, and everything outside
// letters, digits, and hyphens is dropped.
func Anchor(title string) string {
	folded, _, err := transform.String(asciiFold, title)
	if err != nil {
		folded = title
	}

	var b strings.Builder
	b.Grow(len(folded))
	inSpace := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case unicode.IsSpace(r):
			inSpace = true
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-':
			if inSpace && b.Len() > 0 {
				b.WriteByte('-')
			}
			inSpace = false
			b.WriteRune(r)
		}
	}
	return strings.TrimRight(b.String(), "-")
}
