package utils

import (
	"strings"
	"unicode"
)

// Slugify normalizes a filename for storage keys: lowercase, unicode letters
// and digits kept, runs of anything else collapsed into single dashes.
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.TrimSpace(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
			dash = false
		case r == '.':
			// keep extension separators as-is
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	s := strings.Trim(b.String(), "-")
	// Names like ".." carry no real characters and would become literal
	// storage-key segments.
	if strings.Trim(s, ".-") == "" {
		return ""
	}
	return s
}
