package script

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StripMarks removes combining marks (Hebrew points, Latin accents) and
// returns the NFC form of what is left.
func StripMarks(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	if out, _, err := transform.String(t, s); err == nil {
		return out
	}
	return s
}

// HasPoints reports whether s carries at least one Hebrew vowel point.
func HasPoints(s string) bool {
	for _, r := range norm.NFD.String(s) {
		if IsPoint(r) {
			return true
		}
	}
	return false
}

// Fold maps a token to its lookup key: marks stripped, case folded.
func Fold(s string) string {
	return cases.Fold().String(StripMarks(s))
}

// TrimPunct strips leading and trailing punctuation and symbols.
func TrimPunct(s string) string {
	return strings.TrimFunc(s, func(r rune) bool { return Of(r) == Punct })
}

// Tokens splits text on whitespace, trims punctuation from each token,
// folds it and drops tokens that end up empty.
func Tokens(text string) []string {
	fields := strings.Fields(text)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if t := Fold(TrimPunct(f)); t != "" {
			out = append(out, t)
		}
	}
	return out
}
