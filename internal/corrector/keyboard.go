package corrector

import (
	"keyfix/internal/script"
)

const (
	crossWeight    = 0.6
	runWeight      = 0.05
	maxRunBonus    = 0.3
	nearKeyBonus   = 0.02
	maxNearBonus   = 0.1
	mismatchWeight = 0.3
	mismatchShare  = 0.2
	mismatchConf   = 0.7
)

// alternation scores letters that flip between scripts. Only directly
// adjacent letters form a pair. A crossing pair typed on the same or a
// neighbouring key adds a small bonus: that is what a half-switched layout
// looks like.
func (e *Engine) alternation(text string) float64 {
	var prev rune
	var prevCls script.Class
	pairs, crosses, run, longest, near := 0, 0, 0, 0, 0
	for _, r := range text {
		cls := script.Of(r)
		if !cls.IsLetter() {
			prevCls = script.Other
			run = 0
			continue
		}
		if prevCls.IsLetter() {
			pairs++
			if cls != prevCls {
				crosses++
				run++
				longest = max(longest, run)
				if e.layout.Near(prev, r) {
					near++
				}
			} else {
				run = 0
			}
		}
		prev, prevCls = r, cls
	}
	if pairs == 0 {
		return 0
	}
	score := crossWeight * float64(crosses) / float64(pairs)
	score += min(runWeight*float64(longest), maxRunBonus)
	score += min(nearKeyBonus*float64(near), maxNearBonus)
	return score
}

// mismatch penalises confident verdicts contradicted by a share of tokens
// written purely in the other script.
func mismatch(v LanguageVerdict, text string) float64 {
	if v.Confidence <= mismatchConf {
		return 0
	}
	var other script.Class
	switch v.Primary {
	case LangHebrew:
		other = script.Latin
	case LangEnglish:
		other = script.Hebrew
	default:
		return 0
	}
	toks := script.Tokens(text)
	if len(toks) == 0 {
		return 0
	}
	wrong := 0
	for _, t := range toks {
		if pureScript(t, other) {
			wrong++
		}
	}
	share := float64(wrong) / float64(len(toks))
	if share < mismatchShare {
		return 0
	}
	return mismatchWeight * share
}

func pureScript(tok string, cls script.Class) bool {
	seen := false
	for _, r := range tok {
		c := script.Of(r)
		if !c.IsLetter() {
			continue
		}
		if c != cls {
			return false
		}
		seen = true
	}
	return seen
}
