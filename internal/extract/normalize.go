package extract

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize collapses internal whitespace runs to a single space and trims.
// Safe on empty input.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var accentStripper = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// StripAccents removes diacritics via canonical decomposition. Used only for
// case/accent-insensitive keyword matching, never for data that is stored.
func StripAccents(s string) string {
	out, _, err := transform.String(accentStripper, s)
	if err != nil {
		return s
	}
	return out
}

// foldKey normalizes, strips accents and lowercases a string for matching.
func foldKey(s string) string {
	return strings.ToLower(StripAccents(Normalize(s)))
}
