package corrector

import (
	"strings"
	"unicode"

	"keyfix/internal/script"
)

const separators = ".,!?;:"

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune(separators, r)
}

// Segments splits text on whitespace and sentence punctuation, then splits
// each piece again where a letter of the other script starts. Digits and
// symbols stay with the piece they appear in. Each segment gets its own
// language verdict.
func (e *Engine) Segments(text string) []Segment {
	var out []Segment
	for _, piece := range strings.FieldsFunc(text, isSeparator) {
		out = append(out, e.splitScripts(piece)...)
	}
	return out
}

func (e *Engine) splitScripts(piece string) []Segment {
	var out []Segment
	start := 0
	cur := script.Other
	emit := func(end int) {
		if s := piece[start:end]; s != "" {
			out = append(out, Segment{Text: s, Script: cur.String(), Verdict: e.AnalyzeLanguage(s)})
		}
		start = end
	}
	for i, r := range piece {
		cls := script.Of(r)
		if !cls.IsLetter() {
			continue
		}
		if cur.IsLetter() && cls != cur {
			emit(i)
		}
		cur = cls
	}
	emit(len(piece))
	return out
}
