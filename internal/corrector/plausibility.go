package corrector

import (
	"strings"
	"unicode"

	"keyfix/internal/script"
)

const vowels = "aeiou"

// IsPlausible decides whether text reads as genuine text of the target
// script. Hebrew and Latin are the only scripts with a check; anything else
// is not plausible.
func (e *Engine) IsPlausible(text string, target script.Class) Verdict {
	switch target {
	case script.Latin:
		return e.plausibleLatin(text)
	case script.Hebrew:
		return e.plausibleHebrew(text)
	}
	return Verdict{Signal: SignalNone}
}

func (e *Engine) plausibleLatin(text string) Verdict {
	s := strings.ToLower(strings.TrimSpace(text))
	if e.lexicon.AllKnown(s, script.Latin) {
		return Verdict{Plausible: true, Signal: SignalWordList}
	}
	var v, c, run, longest int
	for _, r := range s {
		if script.Of(r) != script.Latin {
			run = 0
			continue
		}
		if strings.ContainsRune(vowels, r) {
			v++
			run = 0
			continue
		}
		c++
		run++
		longest = max(longest, run)
	}
	if v+c < 3 {
		return Verdict{Signal: SignalNone}
	}
	ratio := float64(v) / float64(v+c)
	if ratio < e.config.VowelRatioMin || ratio > e.config.VowelRatioMax {
		return Verdict{Signal: SignalNone}
	}
	if longest > e.config.MaxConsonantRun {
		return Verdict{Signal: SignalNone}
	}
	return Verdict{Plausible: true, Signal: SignalVowelRatio}
}

func (e *Engine) plausibleHebrew(text string) Verdict {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)
	if s == "" {
		return Verdict{Signal: SignalNone}
	}
	n, common := 0, 0
	for _, r := range s {
		if !script.InHebrewBlock(r) {
			return Verdict{Signal: SignalNone}
		}
		n++
		if e.lexicon.IsCommonLetter(r) {
			common++
		}
	}
	if e.lexicon.AllKnown(text, script.Hebrew) {
		return Verdict{Plausible: true, Signal: SignalWordList}
	}
	if n == 1 {
		return Verdict{Plausible: true, Signal: SignalSingleLetter}
	}
	if float64(common)/float64(n) >= e.config.CommonLetterRatio {
		return Verdict{Plausible: true, Signal: SignalLetterFrequency}
	}
	return Verdict{Signal: SignalNone}
}
