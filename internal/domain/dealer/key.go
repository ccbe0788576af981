package dealer

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var lower = cases.Lower(language.Und)

// NormalizeKey trims s and lowercases it. Inner whitespace is significant.
func NormalizeKey(s string) string {
	return lower.String(strings.TrimSpace(s))
}

// NaturalKey identifies a record by dealer name and station.
func NaturalKey(dealerName, station string) string {
	return NormalizeKey(dealerName) + "\x00" + NormalizeKey(station)
}
