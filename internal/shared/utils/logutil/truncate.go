package logutil

// Truncate shortens s to at most maxRunes runes for log output, marking a
// cut with "...". Remote error bodies can be arbitrarily long.
func Truncate(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return "..."
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "..."
}
