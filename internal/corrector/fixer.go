package corrector

import (
	"strings"

	"keyfix/internal/keyboard"
	"keyfix/internal/script"
)

// FixLayout returns the text retyped on the other layout when that is
// clearly what the user meant, and the input unchanged otherwise.
func (e *Engine) FixLayout(text string) string {
	return e.Fix(text).Text
}

// Fix runs the layout fixer and reports how it decided. Rules are checked in
// order and the first match wins.
func (e *Engine) Fix(text string) FixResult {
	res := FixResult{Original: text, Text: text, State: StateNoConversion}
	st := script.Statistics(text)

	switch {
	case st.Mixed():
		res.Reason = "text mixes hebrew and latin letters"
		return res
	case st.Letters() == 0:
		res.Reason = "no letters"
		return res
	case st.Letters() < e.config.MinLetters:
		res.Reason = "too few letters"
		return res
	}

	d := keyboard.LatinToHebrew
	if st.Hebrew > 0 {
		d = keyboard.HebrewToLatin
	}
	cand := e.GenerateCandidate(text, d)
	res.Candidate = &cand
	res.State = StateRejected

	if cand.Convertible != cand.SourceTotal || cand.Convertible < e.config.MinLetters {
		res.Reason = "not every letter has a counterpart"
		return res
	}
	if e.lexicon.AllKnown(text, d.Source()) {
		res.Reason = "original is a known " + d.Source().String() + " text"
		return res
	}
	v := e.IsPlausible(cand.Text, d.Target())
	res.Verdict = &v
	if !v.Plausible {
		res.Reason = "candidate is not plausible"
		return res
	}
	if v.Signal != SignalWordList && e.originalFits(text, d.Source()) {
		res.Reason = "original is as plausible as the candidate"
		return res
	}
	res.State = StateAccepted
	res.Text = cand.Text
	res.Reason = "accepted by " + string(v.Signal)
	return res
}

// hebrewGramShare is the share of letters that common Hebrew n-grams must
// cover before an unknown Hebrew original counts as intended.
const hebrewGramShare = 0.5

// originalFits reports whether the untouched text already reads as cls.
// Latin uses the vowel heuristic. Hebrew needs a known word or enough n-gram
// coverage; the letter frequency test alone is not enough.
func (e *Engine) originalFits(text string, cls script.Class) bool {
	if cls != script.Hebrew {
		return e.IsPlausible(text, cls).Plausible
	}
	for _, t := range script.Tokens(text) {
		if e.lexicon.Has(t, cls) {
			return true
		}
	}
	return e.gramShare(text, cls) >= hebrewGramShare
}

// gramShare is the fraction of letters in text covered by at least one
// n-gram of cls.
func (e *Engine) gramShare(text string, cls script.Class) float64 {
	grams := e.lexicon.NGrams(cls)
	total, covered := 0, 0
	for _, t := range script.Tokens(text) {
		rs := []rune(t)
		hit := make([]bool, len(rs))
		for g := range grams {
			n := len([]rune(g))
			for i := 0; i+n <= len(rs); i++ {
				if strings.HasPrefix(string(rs[i:]), g) {
					for k := i; k < i+n; k++ {
						hit[k] = true
					}
				}
			}
		}
		total += len(rs)
		for _, h := range hit {
			if h {
				covered++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(covered) / float64(total)
}
