package corrector

import (
	"sort"

	"keyfix/internal/script"
)

type band struct {
	high, low string
}

var justifications = map[Operation]band{
	OpLayoutFix:   {"high probability of keyboard layout mistake", "some inconsistent character patterns"},
	OpCleanup:     {"heavy formatting artifacts", "some formatting artifacts"},
	OpEnhancement: {"long hebrew text without vowel points", "hebrew text without vowel points"},
	OpGrammar:     {"several grammar and spacing problems", "possible grammar or spacing problems"},
	OpTranslation: {"text is clearly in one language", "text is probably in one language"},
}

// RankOperations scores text and returns the suggested operations, best
// first. The list is never empty: when nothing clears its threshold a single
// OpNone entry is returned.
func (e *Engine) RankOperations(text string) []Suggestion {
	st := script.Statistics(text)
	return e.rank(e.scoreSignals(text, st, e.analyzeLanguage(text, st)))
}

func (e *Engine) rank(s Signals) []Suggestion {
	th := e.config.Thresholds
	scored := []struct {
		op        Operation
		score, th float64
	}{
		{OpLayoutFix, s.LayoutMistake, th.LayoutFix},
		{OpCleanup, s.Cleaning, th.Cleanup},
		{OpEnhancement, s.Enhancement, th.Enhancement},
		{OpGrammar, s.Grammar, th.Grammar},
		{OpTranslation, s.Translation, th.Translation},
	}
	var out []Suggestion
	top := 0.0
	for _, c := range scored {
		top = max(top, c.score)
		if c.score <= c.th {
			continue
		}
		out = append(out, Suggestion{
			Operation:     c.op,
			Score:         round3(clamp01(c.score)),
			Justification: e.justify(c.op, c.score),
		})
	}
	if len(out) == 0 {
		return []Suggestion{{
			Operation:     OpNone,
			Score:         round3(clamp01(1 - top)),
			Justification: "no operation needed",
		}}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func (e *Engine) justify(op Operation, score float64) string {
	b := justifications[op]
	if score >= e.config.HighBand {
		return b.high
	}
	return b.low
}

// SuggestBest returns the top ranked operation, or OpLayoutFix when nothing
// is suggested.
func (e *Engine) SuggestBest(text string) Operation {
	return best(e.RankOperations(text))
}

func best(list []Suggestion) Operation {
	if len(list) == 0 || list[0].Operation == OpNone {
		return OpLayoutFix
	}
	return list[0].Operation
}

// Analyze runs the analyzer, scorer and ranker over text once.
func (e *Engine) Analyze(text string) Analysis {
	st := script.Statistics(text)
	v := e.analyzeLanguage(text, st)
	sig := e.scoreSignals(text, st, v)
	list := e.rank(sig)
	return Analysis{
		Text:        text,
		Stats:       st,
		Verdict:     v,
		Signals:     sig,
		Suggestions: list,
		Best:        best(list),
		Segments:    e.Segments(text),
	}
}
