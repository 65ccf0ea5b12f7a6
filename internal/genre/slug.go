// Package genre provides genre slugs and the default genre catalogue.
package genre

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Slugify converts a genre name to a URL-safe slug.
// "Science Fiction" -> "science-fiction".
// "Café Noir" -> "cafe-noir".
// "أدب عربي" -> "ادب-عربي".
//
// Letters and digits of any script survive; combining marks are dropped after
// compatibility decomposition, and every other run of characters becomes a
// single hyphen.
func Slugify(s string) string {
	s = norm.NFKD.String(s)

	var b strings.Builder
	b.Grow(len(s))
	pendingHyphen := false
	for _, r := range s {
		switch {
		case unicode.Is(unicode.Mn, r):
			continue
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(unicode.ToLower(r))
		default:
			pendingHyphen = true
		}
	}

	return norm.NFC.String(b.String())
}
