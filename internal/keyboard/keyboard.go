// Package keyboard holds the physical-key equivalence between the Latin and
// Hebrew layouts of one keyboard.
//
// A Layout is built once from a row description and is read-only afterwards;
// it is safe for concurrent use.
package keyboard

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"keyfix/internal/script"
)

//go:embed layouts/he.yaml
var defaultLayout []byte

var (
	// ErrInvalidLayout reports a malformed layout description.
	ErrInvalidLayout = errors.New("keyboard: invalid layout")
	// ErrNotBijective reports a character bound to more than one key, which
	// would make the reverse mapping ambiguous.
	ErrNotBijective = errors.New("keyboard: layout is not a bijection")
)

// Direction is the conversion direction between the two scripts.
type Direction uint8

const (
	// HebrewToLatin reads Hebrew text as if it had been typed on the Latin layout.
	HebrewToLatin Direction = iota
	// LatinToHebrew reads Latin text as if it had been typed on the Hebrew layout.
	LatinToHebrew
)

func (d Direction) String() string {
	if d == LatinToHebrew {
		return "latin->hebrew"
	}
	return "hebrew->latin"
}

// Source is the script converted from.
func (d Direction) Source() script.Class {
	if d == LatinToHebrew {
		return script.Latin
	}
	return script.Hebrew
}

// Target is the script converted to.
func (d Direction) Target() script.Class {
	if d == LatinToHebrew {
		return script.Hebrew
	}
	return script.Latin
}

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction { return 1 - d }

// Row is one keyboard row: column i of Latin and column i of Hebrew are
// produced by the same physical key.
type Row struct {
	Latin  string `yaml:"latin"`
	Hebrew string `yaml:"hebrew"`
}

// Spec is the on-disk form of a layout.
type Spec struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Rows        []Row  `yaml:"rows"`
}

// Layout is the compiled, immutable key table.
type Layout struct {
	name string
	// letters maps a source letter to the target letter on the same key.
	letters [2]map[rune]rune
	// symbols maps a source letter whose key types a non-letter in the target.
	symbols [2]map[rune]rune
	// inner maps a source non-letter whose key types a target letter.
	inner     [2]map[rune]rune
	latinPos  map[rune][2]int
	hebrewPos map[rune][2]int
}

// Default compiles the embedded Hebrew/QWERTY layout.
func Default() (*Layout, error) {
	return Parse(defaultLayout)
}

// Parse compiles a YAML layout description.
func Parse(data []byte) (*Layout, error) {
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLayout, err)
	}
	return New(spec)
}

// New compiles spec. It fails when a row is malformed or when any character
// is bound to two keys on the same side.
func New(spec Spec) (*Layout, error) {
	if len(spec.Rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInvalidLayout)
	}
	l := &Layout{
		name:      spec.Name,
		latinPos:  make(map[rune][2]int),
		hebrewPos: make(map[rune][2]int),
	}
	for i := range l.letters {
		l.letters[i] = make(map[rune]rune)
		l.symbols[i] = make(map[rune]rune)
		l.inner[i] = make(map[rune]rune)
	}

	for r, row := range spec.Rows {
		if utf8.RuneCountInString(row.Latin) != utf8.RuneCountInString(row.Hebrew) {
			return nil, fmt.Errorf("%w: row %d has %d latin and %d hebrew keys",
				ErrInvalidLayout, r, utf8.RuneCountInString(row.Latin), utf8.RuneCountInString(row.Hebrew))
		}
		hebrew := []rune(row.Hebrew)
		c := 0
		for _, la := range row.Latin {
			he := hebrew[c]
			if unicode.IsUpper(la) {
				return nil, fmt.Errorf("%w: row %d: upper-case key %q", ErrInvalidLayout, r, la)
			}
			if prev, ok := l.latinPos[la]; ok {
				return nil, fmt.Errorf("%w: latin %q on keys %v and %v", ErrNotBijective, la, prev, [2]int{r, c})
			}
			if prev, ok := l.hebrewPos[he]; ok {
				return nil, fmt.Errorf("%w: hebrew %q on keys %v and %v", ErrNotBijective, he, prev, [2]int{r, c})
			}
			l.latinPos[la] = [2]int{r, c}
			l.hebrewPos[he] = [2]int{r, c}
			l.bind(la, he)
			c++
		}
	}

	if err := l.verify(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Layout) bind(la, he rune) {
	laLetter := script.Of(la) == script.Latin
	heLetter := script.Of(he) == script.Hebrew
	switch {
	case laLetter && heLetter:
		l.letters[LatinToHebrew][la] = he
		l.letters[HebrewToLatin][he] = la
	case laLetter:
		l.symbols[LatinToHebrew][la] = he
		l.inner[HebrewToLatin][he] = la
	case heLetter:
		l.symbols[HebrewToLatin][he] = la
		l.inner[LatinToHebrew][la] = he
	}
}

// verify checks that letter mapping round-trips in both directions.
func (l *Layout) verify() error {
	for _, d := range []Direction{HebrewToLatin, LatinToHebrew} {
		for src, dst := range l.letters[d] {
			back, ok := l.letters[d.Reverse()][dst]
			if !ok || back != src {
				return fmt.Errorf("%w: %q -> %q does not map back", ErrNotBijective, src, dst)
			}
		}
	}
	return nil
}

// Name returns the layout name.
func (l *Layout) Name() string { return l.name }

// MapLetter returns the target-script letter on the same key as ch. The
// second result is false when ch is not a letter of the source script or its
// key carries no target letter. Latin input is matched case-insensitively.
func (l *Layout) MapLetter(ch rune, d Direction) (rune, bool) {
	if d == LatinToHebrew {
		ch = unicode.ToLower(ch)
	}
	out, ok := l.letters[d][ch]
	return out, ok
}

// MapKey is MapLetter extended to source letters whose key types a
// punctuation mark in the target layout (for example ת on the comma key).
func (l *Layout) MapKey(ch rune, d Direction) (rune, bool) {
	if out, ok := l.MapLetter(ch, d); ok {
		return out, true
	}
	if d == LatinToHebrew {
		ch = unicode.ToLower(ch)
	}
	out, ok := l.symbols[d][ch]
	return out, ok
}

// MapInner returns the target letter for a source punctuation mark that sits
// on a target letter key (for example ',' on the ת key).
func (l *Layout) MapInner(ch rune, d Direction) (rune, bool) {
	out, ok := l.inner[d][ch]
	return out, ok
}

// Project rewrites every key-mappable rune of s in direction d and leaves
// everything else alone.
func (l *Layout) Project(s string, d Direction) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if m, ok := l.MapKey(r, d); ok {
			out = append(out, m)
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

// Letters returns a copy of the letter table for direction d.
func (l *Layout) Letters(d Direction) map[rune]rune {
	out := make(map[rune]rune, len(l.letters[d]))
	for k, v := range l.letters[d] {
		out[k] = v
	}
	return out
}

func (l *Layout) keyOf(r rune) ([2]int, bool) {
	switch script.Of(r) {
	case script.Hebrew:
		p, ok := l.hebrewPos[r]
		return p, ok
	case script.Latin:
		p, ok := l.latinPos[unicode.ToLower(r)]
		return p, ok
	}
	if p, ok := l.latinPos[r]; ok {
		return p, true
	}
	p, ok := l.hebrewPos[r]
	return p, ok
}

// KeyDistance is the Euclidean distance between the keys that type a and b,
// in key units, regardless of which layout each rune belongs to. Runes not on
// the layout are 2.5 keys apart.
func (l *Layout) KeyDistance(a, b rune) float64 {
	pa, oka := l.keyOf(a)
	pb, okb := l.keyOf(b)
	if !oka || !okb {
		return 2.5
	}
	dr := float64(pa[0] - pb[0])
	dc := float64(pa[1] - pb[1])
	return math.Sqrt(dr*dr + dc*dc)
}

// Near reports whether a and b are typed by the same key or by neighbouring
// keys in one row or column.
func (l *Layout) Near(a, b rune) bool {
	return l.KeyDistance(a, b) <= 1.0
}
