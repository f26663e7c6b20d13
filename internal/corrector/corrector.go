package corrector

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"keyfix/internal/keyboard"
	"keyfix/internal/lexicon"
	"keyfix/internal/script"
	"keyfix/pkg/options"
)

// =====================

// Engine classifies text and repairs layout mistakes. Every method is a pure
// function of its input and the immutable tables built in NewEngine, so one
// Engine may be shared by any number of goroutines.
type Engine struct {
	config   Config
	layout   *keyboard.Layout
	lexicon  *lexicon.Lexicon
	patterns map[script.Class]patternSet
	workers  int
	log      *slog.Logger
}

// patternSet holds strings that show up when text meant for the other script
// is typed on this script's layout.
type patternSet struct {
	words map[string]float64
	grams map[string]float64
}

// =====================
// Construction
// =====================

// NewEngine builds the layout and lexicon described by opts and validates
// cfg. Any inconsistency is returned; there is no partial engine.
func NewEngine(cfg Config, opts ...options.Options) (*Engine, error) {
	o := options.Resolve(opts...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	layout, err := loadLayout(o)
	if err != nil {
		return nil, err
	}
	b, err := lexicon.NewBuilder()
	if err != nil {
		return nil, err
	}
	for _, p := range o.LexiconPaths {
		if err := b.AddFile(p); err != nil {
			return nil, err
		}
	}
	b.AddWords(o.ExtraWords...)
	lx := b.Build()

	e := &Engine{
		config:  cfg,
		layout:  layout,
		lexicon: lx,
		workers: o.Workers,
		log:     o.Logger,
	}
	e.patterns = buildPatterns(layout, lx, cfg)
	e.log.Info("engine ready",
		"layout", layout.Name(),
		"hebrew_words", lx.Size(script.Hebrew),
		"english_words", lx.Size(script.Latin),
		"extra_files", len(o.LexiconPaths),
		"custom_words", len(o.ExtraWords),
	)
	return e, nil
}

func loadLayout(o options.EngineOptions) (*keyboard.Layout, error) {
	switch {
	case o.LayoutPath != "":
		data, err := os.ReadFile(o.LayoutPath)
		if err != nil {
			return nil, fmt.Errorf("corrector: read layout: %w", err)
		}
		return keyboard.Parse(data)
	case len(o.LayoutYAML) > 0:
		return keyboard.Parse(o.LayoutYAML)
	}
	return keyboard.Default()
}

func buildPatterns(layout *keyboard.Layout, lx *lexicon.Lexicon, cfg Config) map[script.Class]patternSet {
	out := make(map[script.Class]patternSet, 2)
	for _, d := range []keyboard.Direction{keyboard.HebrewToLatin, keyboard.LatinToHebrew} {
		ps := patternSet{words: map[string]float64{}, grams: map[string]float64{}}
		for _, w := range lx.Words(d.Source()) {
			p := strings.ToLower(layout.Project(w, d))
			if p == w || utf8.RuneCountInString(p) < 2 {
				continue
			}
			ps.words[p] = cfg.WordPatternWeight
		}
		for g, weight := range lx.NGrams(d.Source()) {
			ps.grams[strings.ToLower(layout.Project(g, d))] = weight
		}
		out[d.Target()] = ps
	}
	return out
}

// Config returns the tuning the engine was built with.
func (e *Engine) Config() Config { return e.config }

// Layout returns the keyboard layout.
func (e *Engine) Layout() *keyboard.Layout { return e.layout }

// Lexicon returns the word tables.
func (e *Engine) Lexicon() *lexicon.Lexicon { return e.lexicon }

// Workers is the default batch concurrency.
func (e *Engine) Workers() int { return e.workers }
