package corrector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keyfix/pkg/options"
)

func TestAnalyzeLanguage(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		text       string
		primary    Language
		secondary  Language
		confidence float64
	}{
		{"שלום עולם", LangHebrew, LangNone, 0.95},
		{"hello world", LangEnglish, LangNone, 0.95},
		{"hello שלום", LangMixed, LangNone, 0.5},
		{"", LangUnknown, LangNone, 0},
		{"1234 !!", LangUnknown, LangNone, 0},
		{"xyzzy", LangEnglish, LangNone, 0.6},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			v := e.AnalyzeLanguage(tt.text)
			assert.Equal(t, tt.primary, v.Primary)
			assert.Equal(t, tt.secondary, v.Secondary)
			assert.InDelta(t, tt.confidence, v.Confidence, 1e-9)
		})
	}
}

func TestAnalyzeLanguage_Secondary(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CharWeight, cfg.WordWeight = 0.2, 0.8
	e, err := NewEngine(cfg, options.WithLogger(quietLogger()))
	require.NoError(t, err)

	v := e.AnalyzeLanguage("hello שלום אני")
	assert.Equal(t, LangHebrew, v.Primary)
	assert.Equal(t, LangEnglish, v.Secondary)
	assert.Greater(t, v.EnglishScore, 0.2)
	assert.InDelta(t, v.HebrewScore, v.Confidence, 1e-9)
}

func TestSegments(t *testing.T) {
	e := newTestEngine(t)

	segs := e.Segments("שלום עולם hello world")
	require.Len(t, segs, 4)
	assert.Equal(t, "שלום", segs[0].Text)
	assert.Equal(t, "hebrew", segs[0].Script)
	assert.Equal(t, LangHebrew, segs[0].Verdict.Primary)
	assert.Equal(t, "עולם", segs[1].Text)
	assert.Equal(t, "hello", segs[2].Text)
	assert.Equal(t, "latin", segs[2].Script)
	assert.Equal(t, LangEnglish, segs[2].Verdict.Primary)
	assert.Equal(t, "world", segs[3].Text)

	segs = e.Segments("akuo, שלום!")
	require.Len(t, segs, 2)
	assert.Equal(t, "akuo", segs[0].Text)
	assert.Equal(t, "שלום", segs[1].Text)

	assert.Empty(t, e.Segments("  ,  "))
	segs = e.Segments("123")
	require.Len(t, segs, 1)
	assert.Equal(t, "other", segs[0].Script)
}

func TestSegments_Splits(t *testing.T) {
	e := newTestEngine(t)

	texts := func(segs []Segment) []string {
		out := make([]string, len(segs))
		for i, s := range segs {
			out[i] = s.Text
		}
		return out
	}
	assert.Equal(t, []string{"hi", "there", "ok"}, texts(e.Segments("hi.there;ok")))
	assert.Equal(t, []string{"abc", "שלום"}, texts(e.Segments("abcשלום")))
	assert.Equal(t, []string{"12abc", "שלום3"}, texts(e.Segments("12abcשלום3")))
	assert.Equal(t, []string{"don't", "stop"}, texts(e.Segments("don't\tstop?!")))

	segs := e.Segments("abcשלום")
	assert.Equal(t, "latin", segs[0].Script)
	assert.Equal(t, "hebrew", segs[1].Script)
}
