package options

import (
	"log/slog"
	"runtime"
)

// DefaultOptions are used when NewEngine gets no options: embedded layout,
// embedded lexicon, one batch worker per CPU.
var DefaultOptions = EngineOptions{
	Workers: runtime.NumCPU(),
}

// EngineOptions are the static data sources an engine is built from.
type EngineOptions struct {
	LayoutPath   string       // YAML layout file; overrides LayoutYAML
	LayoutYAML   []byte       // inline YAML layout
	LexiconPaths []string     // extra word-list files
	ExtraWords   []string     // words added on top of the lexicon (custom dictionary)
	Workers      int          // default batch concurrency
	Logger       *slog.Logger // nil means slog.Default()
}

type Options interface {
	Apply(options *EngineOptions)
}

type FuncConfig struct {
	ops func(options *EngineOptions)
}

func (w FuncConfig) Apply(conf *EngineOptions) {
	w.ops(conf)
}

func NewFuncOption(f func(options *EngineOptions)) *FuncConfig {
	return &FuncConfig{ops: f}
}

func WithLayoutFile(path string) Options {
	return NewFuncOption(func(options *EngineOptions) {
		options.LayoutPath = path
	})
}

func WithLayoutYAML(data []byte) Options {
	return NewFuncOption(func(options *EngineOptions) {
		options.LayoutYAML = data
	})
}

// WithLexiconFiles appends word-list files; each line holds a word and an
// optional count.
func WithLexiconFiles(paths ...string) Options {
	return NewFuncOption(func(options *EngineOptions) {
		options.LexiconPaths = append(options.LexiconPaths, paths...)
	})
}

func WithExtraWords(words ...string) Options {
	return NewFuncOption(func(options *EngineOptions) {
		options.ExtraWords = append(options.ExtraWords, words...)
	})
}

func WithWorkers(n int) Options {
	return NewFuncOption(func(options *EngineOptions) {
		if n > 0 {
			options.Workers = n
		}
	})
}

func WithLogger(l *slog.Logger) Options {
	return NewFuncOption(func(options *EngineOptions) {
		options.Logger = l
	})
}

// Resolve applies opts on top of DefaultOptions.
func Resolve(opts ...Options) EngineOptions {
	o := DefaultOptions
	o.LexiconPaths = append([]string(nil), DefaultOptions.LexiconPaths...)
	o.ExtraWords = append([]string(nil), DefaultOptions.ExtraWords...)
	for _, opt := range opts {
		if opt != nil {
			opt.Apply(&o)
		}
	}
	if o.Workers <= 0 {
		o.Workers = 1
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}
