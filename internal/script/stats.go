package script

// Stats holds per-class counts for one text. Every rune is counted in
// exactly one class, so the class counts always add up to Total.
type Stats struct {
	Total      int `json:"total"`
	Hebrew     int `json:"hebrew"`
	Latin      int `json:"latin"`
	Digits     int `json:"digits"`
	Punct      int `json:"punctuation"`
	Spaces     int `json:"whitespace"`
	Diacritics int `json:"diacritics"`
	Other      int `json:"other"`
}

// Statistics counts the classes of text. The empty string yields zero Stats.
func Statistics(text string) Stats {
	var s Stats
	for _, r := range text {
		s.Total++
		switch Of(r) {
		case Hebrew:
			s.Hebrew++
		case Latin:
			s.Latin++
		case Digit:
			s.Digits++
		case Punct:
			s.Punct++
		case Space:
			s.Spaces++
		case Diacritic:
			s.Diacritics++
		default:
			s.Other++
		}
	}
	return s
}

// Letters is the number of Hebrew and Latin letters.
func (s Stats) Letters() int { return s.Hebrew + s.Latin }

// Mixed reports whether letters of both scripts are present.
func (s Stats) Mixed() bool { return s.Hebrew > 0 && s.Latin > 0 }

// HebrewRatio is the share of Hebrew among all letters.
func (s Stats) HebrewRatio() float64 { return ratio(s.Hebrew, s.Letters()) }

// LatinRatio is the share of Latin among all letters.
func (s Stats) LatinRatio() float64 { return ratio(s.Latin, s.Letters()) }

// PunctRatio is the share of punctuation among all runes.
func (s Stats) PunctRatio() float64 { return ratio(s.Punct, s.Total) }

// SpaceRatio is the share of whitespace among all runes.
func (s Stats) SpaceRatio() float64 { return ratio(s.Spaces, s.Total) }

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}
