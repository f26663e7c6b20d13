// Package lexicon holds the per-script word sets and letter n-gram weights
// the corrector consults. A Lexicon is immutable once built and safe for
// concurrent readers; changes go through a Builder and produce a new value.
package lexicon

import (
	"bufio"
	"bytes"
	"embed"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/edsrzf/mmap-go"
	"gopkg.in/yaml.v3"

	"keyfix/internal/script"
)

//go:embed data/hebrew.txt data/latin.txt data/ngrams.yaml
var data embed.FS

// Lexicon is a read-only word and n-gram store keyed by script.
type Lexicon struct {
	words  map[script.Class]map[string]struct{}
	ngrams map[script.Class]map[string]float64
	common map[rune]struct{}
}

type ngramFile struct {
	CommonLetters string             `yaml:"common_letters"`
	Hebrew        map[string]float64 `yaml:"hebrew"`
	Latin         map[string]float64 `yaml:"latin"`
}

// Builder accumulates words before freezing them into a Lexicon.
type Builder struct {
	words  map[script.Class]map[string]struct{}
	ngrams map[script.Class]map[string]float64
	common map[rune]struct{}
}

// NewBuilder returns a Builder preloaded with the embedded word lists and
// n-gram tables.
func NewBuilder() (*Builder, error) {
	b := NewEmptyBuilder()
	for _, name := range []string{"data/hebrew.txt", "data/latin.txt"} {
		raw, err := data.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("lexicon: read %s: %w", name, err)
		}
		if err := b.AddReader(bytes.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("lexicon: parse %s: %w", name, err)
		}
	}
	raw, err := data.ReadFile("data/ngrams.yaml")
	if err != nil {
		return nil, fmt.Errorf("lexicon: read n-grams: %w", err)
	}
	var nf ngramFile
	if err := yaml.Unmarshal(raw, &nf); err != nil {
		return nil, fmt.Errorf("lexicon: parse n-grams: %w", err)
	}
	for g, w := range nf.Hebrew {
		b.ngrams[script.Hebrew][g] = w
	}
	for g, w := range nf.Latin {
		b.ngrams[script.Latin][strings.ToLower(g)] = w
	}
	for _, r := range nf.CommonLetters {
		b.common[r] = struct{}{}
	}
	return b, nil
}

// NewEmptyBuilder returns a Builder with no words and no n-grams.
func NewEmptyBuilder() *Builder {
	return &Builder{
		words: map[script.Class]map[string]struct{}{
			script.Hebrew: {},
			script.Latin:  {},
		},
		ngrams: map[script.Class]map[string]float64{
			script.Hebrew: {},
			script.Latin:  {},
		},
		common: map[rune]struct{}{},
	}
}

// AddWords files each word under its dominant script. Words without
// letters are ignored.
func (b *Builder) AddWords(words ...string) *Builder {
	for _, w := range words {
		w = script.Fold(script.TrimPunct(strings.TrimSpace(w)))
		if w == "" {
			continue
		}
		switch cls := script.Dominant(w); cls {
		case script.Hebrew, script.Latin:
			b.words[cls][w] = struct{}{}
		}
	}
	return b
}

// AddReader reads a word list: one word per line, optionally followed by a
// count column. Blank lines and lines starting with '#' are skipped.
func (b *Builder) AddReader(r io.Reader) error {
	s := bufio.NewScanner(r)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)
		if !utf8.ValidString(parts[0]) {
			continue
		}
		b.AddWords(parts[0])
	}
	return s.Err()
}

// AddFile memory-maps a word list file and adds its words.
func (b *Builder) AddFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("lexicon: open %s: %w", path, err)
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return fmt.Errorf("lexicon: stat %s: %w", path, err)
	}
	if fi.Size() == 0 {
		return nil
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return fmt.Errorf("lexicon: map %s: %w", path, err)
	}
	defer m.Unmap()
	if err := b.AddReader(bytes.NewReader(m)); err != nil {
		return fmt.Errorf("lexicon: parse %s: %w", path, err)
	}
	return nil
}

// Build freezes the accumulated state. The Builder may keep being used.
func (b *Builder) Build() *Lexicon {
	l := &Lexicon{
		words:  make(map[script.Class]map[string]struct{}, len(b.words)),
		ngrams: make(map[script.Class]map[string]float64, len(b.ngrams)),
		common: make(map[rune]struct{}, len(b.common)),
	}
	for cls, set := range b.words {
		cp := make(map[string]struct{}, len(set))
		for w := range set {
			cp[w] = struct{}{}
		}
		l.words[cls] = cp
	}
	for cls, tab := range b.ngrams {
		cp := make(map[string]float64, len(tab))
		for g, w := range tab {
			cp[g] = w
		}
		l.ngrams[cls] = cp
	}
	for r := range b.common {
		l.common[r] = struct{}{}
	}
	return l
}

// Default returns the lexicon built from the embedded data only.
func Default() (*Lexicon, error) {
	b, err := NewBuilder()
	if err != nil {
		return nil, err
	}
	return b.Build(), nil
}

// Has reports whether word is a known word of the given script. The lookup
// is case and mark insensitive.
func (l *Lexicon) Has(word string, cls script.Class) bool {
	set, ok := l.words[cls]
	if !ok {
		return false
	}
	_, ok = set[script.Fold(script.TrimPunct(word))]
	return ok
}

// Known reports whether word is known in either script.
func (l *Lexicon) Known(word string) bool {
	return l.Has(word, script.Hebrew) || l.Has(word, script.Latin)
}

// AllKnown reports whether text has at least one token and every token is a
// known word of cls.
func (l *Lexicon) AllKnown(text string, cls script.Class) bool {
	toks := script.Tokens(text)
	if len(toks) == 0 {
		return false
	}
	for _, t := range toks {
		if !l.Has(t, cls) {
			return false
		}
	}
	return true
}

// Words returns the sorted word list for cls.
func (l *Lexicon) Words(cls script.Class) []string {
	out := make([]string, 0, len(l.words[cls]))
	for w := range l.words[cls] {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Size is the number of words known for cls.
func (l *Lexicon) Size(cls script.Class) int { return len(l.words[cls]) }

// NGrams returns a copy of the n-gram weight table for cls.
func (l *Lexicon) NGrams(cls script.Class) map[string]float64 {
	out := make(map[string]float64, len(l.ngrams[cls]))
	for g, w := range l.ngrams[cls] {
		out[g] = w
	}
	return out
}

// IsCommonLetter reports whether r is one of the frequent non-final Hebrew
// letters.
func (l *Lexicon) IsCommonLetter(r rune) bool {
	_, ok := l.common[r]
	return ok
}
