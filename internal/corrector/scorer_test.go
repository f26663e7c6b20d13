package corrector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keyfix/pkg/options"
)

func operations(list []Suggestion) []Operation {
	out := make([]Operation, len(list))
	for i, s := range list {
		out[i] = s.Operation
	}
	return out
}

func TestScoreSignals_Cleaning(t *testing.T) {
	e := newTestEngine(t)

	s := e.ScoreSignals("Hello...!!!")
	assert.InDelta(t, 0.5, s.Cleaning, 1e-9)
	assert.Contains(t, operations(e.RankOperations("Hello...!!!")), OpCleanup)

	assert.Zero(t, e.ScoreSignals("Hello there.").Cleaning)
	assert.InDelta(t, 0.2, e.ScoreSignals("a  b").Cleaning, 1e-9)
	assert.InDelta(t, 0.3, e.ScoreSignals("a__b").Cleaning, 1e-9)
	assert.InDelta(t, 0.3, e.ScoreSignals("a\u200bb").Cleaning, 1e-9)
	assert.InDelta(t, 0.2, e.ScoreSignals("a\n\n\nb").Cleaning, 1e-9)
	assert.InDelta(t, 0.2, e.ScoreSignals("a   b").Cleaning, 1e-9)
	assert.Equal(t, Signals{}, e.ScoreSignals("   "))
	assert.Equal(t, Signals{}, e.ScoreSignals(" \t\n\n\n "))
}

func TestScoreSignals_Grammar(t *testing.T) {
	e := newTestEngine(t)

	assert.InDelta(t, 0.6, e.ScoreSignals("the the cat sat.then").Grammar, 1e-9)
	assert.InDelta(t, 0.1, e.ScoreSignals("Hello ,world").Grammar, 1e-9)
	assert.Zero(t, e.ScoreSignals("Hello world. Fine.").Grammar)
	assert.Contains(t, operations(e.RankOperations("the the cat sat.then")), OpGrammar)
}

func TestScoreSignals_Enhancement(t *testing.T) {
	e := newTestEngine(t)

	assert.InDelta(t, 0.6, e.ScoreSignals("שלום").Enhancement, 1e-9)
	assert.Zero(t, e.ScoreSignals("\u05E9\u05B8\u05C1\u05DC\u05D5\u05B9\u05DD").Enhancement)
	assert.Zero(t, e.ScoreSignals("hello world").Enhancement)

	long := "משפחה עבודה חברה אנגלית עברית משפחה עבודה חברה אנגלית עברית"
	s := e.ScoreSignals(long)
	assert.InDelta(t, 0.8, s.Enhancement, 1e-9)
}

func TestScoreSignals_LayoutMistake(t *testing.T) {
	e := newTestEngine(t)

	alt := e.ScoreSignals("aשbדcגdכ")
	assert.Greater(t, alt.LayoutMistake, 0.7)
	assert.Equal(t, "aשbדcגdכ", e.FixLayout("aשbדcגdכ"))

	typo := e.ScoreSignals("akuo")
	assert.Greater(t, typo.LayoutMistake, 0.3)
	assert.Less(t, typo.LayoutMistake, 0.7)

	assert.Zero(t, e.ScoreSignals("hello world").LayoutMistake)
	assert.Zero(t, e.ScoreSignals("").LayoutMistake)
}

func TestScoreSignals_Translation(t *testing.T) {
	e := newTestEngine(t)

	assert.InDelta(t, 0.95, e.ScoreSignals("hello world").Translation, 1e-9)
	assert.Zero(t, e.ScoreSignals("hello שלום").Translation)
	assert.Zero(t, e.ScoreSignals("").Translation)
	assert.Equal(t, OpTranslation, e.SuggestBest("hello world"))

	noisy := e.ScoreSignals("Hello...!!!")
	assert.Greater(t, noisy.Cleaning, e.Config().Thresholds.Cleanup)
	assert.Zero(t, noisy.Translation)
	assert.Zero(t, e.ScoreSignals("akuo").Translation)
	assert.Zero(t, e.ScoreSignals("the the cat sat.then").Translation)

	cfg := DefaultConfig()
	cfg.Thresholds.Cleanup = 0.6
	loose, err := NewEngine(cfg, options.WithLogger(quietLogger()))
	require.NoError(t, err)
	assert.InDelta(t, 0.95, loose.ScoreSignals("Hello...!!!").Translation, 1e-9)
}

func TestRankOperations(t *testing.T) {
	e := newTestEngine(t)

	list := e.RankOperations("akuo")
	require.NotEmpty(t, list)
	assert.Equal(t, OpLayoutFix, list[0].Operation)
	assert.Equal(t, "some inconsistent character patterns", list[0].Justification)
	assert.Equal(t, OpLayoutFix, e.SuggestBest("akuo"))

	list = e.RankOperations("aשbדcגdכ")
	assert.Equal(t, OpLayoutFix, list[0].Operation)
	assert.Equal(t, "high probability of keyboard layout mistake", list[0].Justification)

	list = e.RankOperations("Hello...!!!")
	assert.Equal(t, []Operation{OpCleanup}, operations(list))
	assert.Equal(t, OpCleanup, e.SuggestBest("Hello...!!!"))
}

func TestRankOperations_Nothing(t *testing.T) {
	e := newTestEngine(t)

	for _, text := range []string{"", "1234", "   "} {
		list := e.RankOperations(text)
		require.Len(t, list, 1, text)
		assert.Equal(t, OpNone, list[0].Operation)
		assert.InDelta(t, 1.0, list[0].Score, 1e-9)
		assert.Equal(t, OpLayoutFix, e.SuggestBest(text))
	}
}

func TestRankOperations_Thresholds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Thresholds.Translation = 0.99
	cfg.Thresholds.Cleanup = 0.6
	e, err := NewEngine(cfg)
	require.NoError(t, err)

	list := e.RankOperations("Hello...!!!")
	require.Len(t, list, 1)
	assert.Equal(t, OpNone, list[0].Operation)
	assert.InDelta(t, 0.05, list[0].Score, 1e-9)
}

func TestAnalyze(t *testing.T) {
	e := newTestEngine(t)

	a := e.Analyze("akuo")
	assert.Equal(t, "akuo", a.Text)
	assert.Equal(t, 4, a.Stats.Latin)
	assert.Equal(t, LangEnglish, a.Verdict.Primary)
	assert.Equal(t, OpLayoutFix, a.Best)
	assert.Equal(t, e.RankOperations("akuo"), a.Suggestions)
	assert.Len(t, a.Segments, 1)
}
