package corrector

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"keyfix/internal/script"
)

const patternScale = 0.1

type check struct {
	re     *regexp.Regexp
	weight float64
}

var cleaningChecks = []check{
	{regexp.MustCompile(`[ \t]{2,}`), 0.2},
	{regexp.MustCompile(`_{2,}`), 0.3},
	{regexp.MustCompile(`!{2,}|\?{2,}`), 0.3},
	{regexp.MustCompile(`\.{4,}`), 0.2},
	{regexp.MustCompile(`[.!?]{4,}`), 0.2},
	{regexp.MustCompile(`\n[ \t]*\n[ \t]*\n`), 0.2},
	{regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x{200B}-\x{200D}\x{FEFF}]`), 0.3},
}

var grammarChecks = []check{
	{regexp.MustCompile(`[.!?][\p{L}]`), 0.2},
	{regexp.MustCompile(`[^\S\n]+[,.!?;:]`), 0.1},
	{regexp.MustCompile(`(?:^|[.!?]\s+)\p{Ll}`), 0.1},
}

const repeatedWordWeight = 0.3

// ScoreSignals computes the independent scorer outputs for text.
func (e *Engine) ScoreSignals(text string) Signals {
	st := script.Statistics(text)
	return e.scoreSignals(text, st, e.analyzeLanguage(text, st))
}

// scoreSignals leaves blank text at zero on every signal.
func (e *Engine) scoreSignals(text string, st script.Stats, v LanguageVerdict) Signals {
	if strings.TrimSpace(text) == "" {
		return Signals{}
	}
	s := Signals{
		LayoutMistake: e.layoutMistake(text, v),
		Cleaning:      cleaningScore(text),
		Grammar:       grammarScore(text),
		Enhancement:   enhancementScore(text, st),
	}
	s.Translation = e.translationScore(s, v)
	return s
}

// translationScore is the language confidence discounted by the layout
// mistake score. Text that first needs a local layout fix, cleanup or
// grammar pass scores zero.
func (e *Engine) translationScore(s Signals, v LanguageVerdict) float64 {
	if v.Primary != LangHebrew && v.Primary != LangEnglish {
		return 0
	}
	th := e.config.Thresholds
	if s.LayoutMistake > th.LayoutFix || s.Cleaning > th.Cleanup || s.Grammar > th.Grammar {
		return 0
	}
	return clamp01(v.Confidence * (1 - s.LayoutMistake))
}

// layoutMistake sums mistyped-pattern hits, script alternation and the
// language mismatch penalty.
func (e *Engine) layoutMistake(text string, v LanguageVerdict) float64 {
	score := 0.0
	for _, field := range strings.Fields(text) {
		tok := strings.ToLower(field)
		trimmed := script.TrimPunct(tok)
		if trimmed == "" || e.lexicon.Known(trimmed) {
			continue
		}
		cls := script.Dominant(tok)
		ps, ok := e.patterns[cls]
		if !ok {
			continue
		}
		if w, ok := ps.words[tok]; ok {
			score += w * patternScale
		} else if w, ok := ps.words[trimmed]; ok {
			score += w * patternScale
		}
		for g, w := range ps.grams {
			if n := strings.Count(tok, g); n > 0 {
				score += float64(n) * w * patternScale
			}
		}
	}
	score += e.alternation(text)
	score += mismatch(v, text)
	return clamp01(score)
}

func cleaningScore(text string) float64 {
	score := 0.0
	for _, c := range cleaningChecks {
		if c.re.MatchString(text) {
			score += c.weight
		}
	}
	return clamp01(score)
}

func grammarScore(text string) float64 {
	score := 0.0
	if hasRepeatedWord(text) {
		score += repeatedWordWeight
	}
	for _, c := range grammarChecks {
		if c.re.MatchString(text) {
			score += c.weight
		}
	}
	return clamp01(score)
}

// hasRepeatedWord finds "the the" style doubles, case-insensitively.
func hasRepeatedWord(text string) bool {
	prev := ""
	for _, t := range script.Tokens(text) {
		if !strings.ContainsFunc(t, unicode.IsLetter) {
			prev = ""
			continue
		}
		if t == prev {
			return true
		}
		prev = t
	}
	return false
}

// enhancementScore rates how much unpointed Hebrew text would gain from
// vowel points.
func enhancementScore(text string, st script.Stats) float64 {
	if st.Hebrew == 0 || st.Hebrew < st.Latin {
		return 0
	}
	if script.HasPoints(text) {
		return 0
	}
	score := 0.5
	if st.Hebrew >= 20 {
		score += 0.1
	}
	if st.Hebrew >= 50 {
		score += 0.1
	}
	if avg := averageWordLength(text); avg >= 6 {
		score += 0.2
	} else if avg >= 4 {
		score += 0.1
	}
	return clamp01(score)
}

func averageWordLength(text string) float64 {
	toks := script.Tokens(text)
	if len(toks) == 0 {
		return 0
	}
	n := 0
	for _, t := range toks {
		n += utf8.RuneCountInString(t)
	}
	return float64(n) / float64(len(toks))
}
