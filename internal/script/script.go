// Package script assigns every rune to a character class for the two
// writing systems the layout engine understands: Hebrew and Latin.
package script

import (
	"unicode"
	"unicode/utf8"
)

// Class is the character class of a single rune.
type Class uint8

const (
	Other Class = iota
	Hebrew
	Latin
	Digit
	Punct
	Space
	Diacritic
)

func (c Class) String() string {
	switch c {
	case Hebrew:
		return "hebrew"
	case Latin:
		return "latin"
	case Digit:
		return "digit"
	case Punct:
		return "punct"
	case Space:
		return "space"
	case Diacritic:
		return "diacritic"
	default:
		return "other"
	}
}

// IsLetter reports whether c is a letter of one of the two known scripts.
func (c Class) IsLetter() bool { return c == Hebrew || c == Latin }

const (
	hebrewBlockStart = 0x0590
	hebrewBlockEnd   = 0x05FF
)

// Of returns the class of r. It never fails: anything unrecognised is Other.
func Of(r rune) Class {
	switch {
	case r >= 0x05D0 && r <= 0x05EA, r >= 0x05F0 && r <= 0x05F2:
		return Hebrew
	case r >= 0x0591 && r <= 0x05C7:
		switch r {
		case 0x05BE, 0x05C0, 0x05C3, 0x05C6: // maqaf, paseq, sof pasuq, nun hafukha
			return Punct
		}
		return Diacritic
	case r == 0x05F3 || r == 0x05F4: // geresh, gershayim
		return Punct
	case r < utf8.RuneSelf && ('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'):
		return Latin
	case unicode.IsDigit(r):
		return Digit
	case unicode.IsSpace(r):
		return Space
	case unicode.Is(unicode.Mn, r):
		return Diacritic
	case unicode.IsLetter(r) && unicode.Is(unicode.Latin, r):
		return Latin
	case unicode.IsPunct(r) || unicode.IsSymbol(r):
		return Punct
	}
	return Other
}

// InHebrewBlock reports whether r lies in the Hebrew Unicode block.
func InHebrewBlock(r rune) bool {
	return r >= hebrewBlockStart && r <= hebrewBlockEnd
}

// IsPoint reports whether r is a Hebrew vowel point (niqqud), including
// dagesh, shin/sin dots and rafe.
func IsPoint(r rune) bool {
	return r >= 0x05B0 && r <= 0x05C7 && Of(r) == Diacritic
}

// Classify returns the class of every rune in text, in order.
func Classify(text string) []Class {
	out := make([]Class, 0, utf8.RuneCountInString(text))
	for _, r := range text {
		out = append(out, Of(r))
	}
	return out
}

// Dominant returns Hebrew or Latin, whichever has more letters in text, or
// Other when text has no letters of either script. Ties go to Hebrew.
func Dominant(text string) Class {
	var he, la int
	for _, r := range text {
		switch Of(r) {
		case Hebrew:
			he++
		case Latin:
			la++
		}
	}
	switch {
	case he == 0 && la == 0:
		return Other
	case he >= la:
		return Hebrew
	default:
		return Latin
	}
}
