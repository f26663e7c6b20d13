package corrector

import (
	"keyfix/internal/keyboard"
	"keyfix/internal/script"
)

// GenerateCandidate remaps every source-script letter of text through the
// layout. Everything else passes through, except punctuation that sits on a
// target letter key and is flanked by source letters on both sides. The
// result always has a text; when nothing maps it equals the input.
func (e *Engine) GenerateCandidate(text string, d keyboard.Direction) Candidate {
	src := d.Source()
	rs := []rune(text)
	out := make([]rune, len(rs))
	c := Candidate{Direction: d}
	for i, r := range rs {
		out[i] = r
		if script.Of(r) == src {
			c.SourceTotal++
			if m, ok := e.layout.MapKey(r, d); ok {
				out[i] = m
				c.Convertible++
			}
			continue
		}
		if m, ok := e.layout.MapInner(r, d); ok && flanked(rs, i, src) {
			out[i] = m
		}
	}
	c.Text = string(out)
	return c
}

func flanked(rs []rune, i int, cls script.Class) bool {
	return i > 0 && i+1 < len(rs) && script.Of(rs[i-1]) == cls && script.Of(rs[i+1]) == cls
}
