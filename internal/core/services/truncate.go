package services

import "unicode/utf8"

// truncate caps s at max bytes, backing up to a rune boundary so a
// multi-byte character is never split, and appends "..." when anything
// was cut.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
