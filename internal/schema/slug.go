package schema

import (
	"strings"
	"unicode"
)

const maxSlugLen = 60

// Slugify derives a URL-safe identifier from a title. Apostrophes and any
// character outside [a-z0-9] are dropped, whitespace and hyphen runs become a
// single hyphen, and the result is cut to 60 characters.
//
// Distinct titles can produce the same slug; the dedup index catches that.
func Slugify(title string) string {
	s := strings.ToLower(title)

	var b strings.Builder
	b.Grow(len(s))

	pendingDash := false
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			pendingDash = true
		}
	}

	out := b.String()
	if len(out) > maxSlugLen {
		out = out[:maxSlugLen]
	}
	return out
}
