package utils

import "unicode/utf8"

// TruncateRunes shortens s to at most max runes, replacing the tail with an
// ellipsis when it has to cut.
func TruncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}

	runes := []rune(s)
	if max == 1 {
		return string(runes[:1])
	}
	return string(runes[:max-1]) + "…"
}
