package corrector

import (
	"keyfix/internal/script"
)

// AnalyzeLanguage blends character ratios with word-list membership into a
// primary and secondary language guess.
func (e *Engine) AnalyzeLanguage(text string) LanguageVerdict {
	return e.analyzeLanguage(text, script.Statistics(text))
}

func (e *Engine) analyzeLanguage(text string, st script.Stats) LanguageVerdict {
	v := LanguageVerdict{Primary: LangUnknown, Secondary: LangNone}
	if st.Letters() == 0 {
		return v
	}
	charScore := st.HebrewRatio() - st.LatinRatio()
	var heWords, enWords float64
	if toks := script.Tokens(text); len(toks) > 0 {
		var he, en int
		for _, t := range toks {
			if e.lexicon.Has(t, script.Hebrew) {
				he++
			}
			if e.lexicon.Has(t, script.Latin) {
				en++
			}
		}
		heWords = float64(he) / float64(len(toks))
		enWords = float64(en) / float64(len(toks))
	}
	cw, ww := e.config.CharWeight, e.config.WordWeight
	heScore := clamp01(cw*charScore + ww*heWords)
	enScore := clamp01(cw*-charScore + ww*enWords)
	v.HebrewScore, v.EnglishScore = heScore, enScore

	switch {
	case heScore > e.config.PrimaryThreshold && heScore > enScore:
		v.Primary = LangHebrew
		v.Confidence = min(heScore, e.config.MaxConfidence)
		if enScore > e.config.SecondaryThreshold {
			v.Secondary = LangEnglish
		}
	case enScore > e.config.PrimaryThreshold && enScore > heScore:
		v.Primary = LangEnglish
		v.Confidence = min(enScore, e.config.MaxConfidence)
		if heScore > e.config.SecondaryThreshold {
			v.Secondary = LangHebrew
		}
	default:
		v.Primary = LangMixed
		v.Confidence = 0.5
	}
	return v
}
