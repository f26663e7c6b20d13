package corrector

import (
	"fmt"

	"keyfix/internal/keyboard"
	"keyfix/internal/script"
)

// Thresholds are the activation levels of each suggested operation. A score
// must be strictly greater than its threshold to be suggested.
type Thresholds struct {
	LayoutFix   float64 `json:"layout_fix"`
	Cleanup     float64 `json:"cleanup"`
	Enhancement float64 `json:"enhancement"`
	Grammar     float64 `json:"grammar"`
	Translation float64 `json:"translation"`
}

// Config holds the tuning constants of the engine.
type Config struct {
	Thresholds Thresholds

	MinLetters         int     // letters needed before a fix is attempted
	VowelRatioMin      float64 // Latin plausibility window
	VowelRatioMax      float64
	MaxConsonantRun    int
	CommonLetterRatio  float64 // Hebrew plausibility: share of common letters
	CharWeight         float64 // analyzer blend of character ratios
	WordWeight         float64 // analyzer blend of word membership
	PrimaryThreshold   float64
	SecondaryThreshold float64
	MaxConfidence      float64
	WordPatternWeight  float64 // weight of a whole mistyped common word
	HighBand           float64 // score at which justifications turn "high"
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		Thresholds: Thresholds{
			LayoutFix:   0.3,
			Cleanup:     0.4,
			Enhancement: 0.5,
			Grammar:     0.4,
			Translation: 0.5,
		},
		MinLetters:         2,
		VowelRatioMin:      0.15,
		VowelRatioMax:      0.65,
		MaxConsonantRun:    3,
		CommonLetterRatio:  0.8,
		CharWeight:         0.6,
		WordWeight:         0.4,
		PrimaryThreshold:   0.3,
		SecondaryThreshold: 0.2,
		MaxConfidence:      0.95,
		WordPatternWeight:  4.0,
		HighBand:           0.7,
	}
}

// Validate rejects tunings that would produce scores outside [0,1].
func (c Config) Validate() error {
	for name, v := range map[string]float64{
		"thresholds.layout_fix":  c.Thresholds.LayoutFix,
		"thresholds.cleanup":     c.Thresholds.Cleanup,
		"thresholds.enhancement": c.Thresholds.Enhancement,
		"thresholds.grammar":     c.Thresholds.Grammar,
		"thresholds.translation": c.Thresholds.Translation,
		"vowel_ratio_min":        c.VowelRatioMin,
		"vowel_ratio_max":        c.VowelRatioMax,
		"common_letter_ratio":    c.CommonLetterRatio,
		"max_confidence":         c.MaxConfidence,
		"high_band":              c.HighBand,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: %s=%v outside [0,1]", ErrInvalidConfig, name, v)
		}
	}
	if c.VowelRatioMin > c.VowelRatioMax {
		return fmt.Errorf("%w: vowel ratio window is empty", ErrInvalidConfig)
	}
	if c.MinLetters < 1 || c.MaxConsonantRun < 1 {
		return fmt.Errorf("%w: min letters and consonant run must be positive", ErrInvalidConfig)
	}
	if c.CharWeight < 0 || c.WordWeight < 0 || c.CharWeight+c.WordWeight > 1 {
		return fmt.Errorf("%w: analyzer weights must be non-negative and sum to at most 1", ErrInvalidConfig)
	}
	return nil
}

// Candidate is a fully remapped rendering of a text in the other layout.
type Candidate struct {
	Direction   keyboard.Direction `json:"direction"`
	Text        string             `json:"text"`
	Convertible int                `json:"convertible"`
	SourceTotal int                `json:"source_letters"`
}

// Signal names the check that produced a plausibility verdict.
type Signal string

const (
	SignalNone            Signal = "none"
	SignalWordList        Signal = "word-list"
	SignalVowelRatio      Signal = "vowel-ratio"
	SignalLetterFrequency Signal = "letter-frequency"
	SignalSingleLetter    Signal = "single-letter"
)

// Verdict is the outcome of a plausibility check.
type Verdict struct {
	Plausible bool   `json:"plausible"`
	Signal    Signal `json:"signal"`
}

// FixState is where the layout fixer stopped.
type FixState string

const (
	StateNoConversion FixState = "no-conversion"
	StateAccepted     FixState = "accepted"
	StateRejected     FixState = "rejected"
)

// FixResult describes a layout fix attempt.
type FixResult struct {
	Original  string     `json:"original"`
	Text      string     `json:"text"`
	State     FixState   `json:"state"`
	Reason    string     `json:"reason"`
	Candidate *Candidate `json:"candidate,omitempty"`
	Verdict   *Verdict   `json:"verdict,omitempty"`
}

// Changed reports whether the fix produced a different text.
func (r FixResult) Changed() bool { return r.State == StateAccepted }

// Language is a LanguageVerdict slot.
type Language string

const (
	LangNone    Language = "none"
	LangUnknown Language = "unknown"
	LangHebrew  Language = "hebrew"
	LangEnglish Language = "english"
	LangMixed   Language = "mixed"
)

func languageOf(c script.Class) Language {
	switch c {
	case script.Hebrew:
		return LangHebrew
	case script.Latin:
		return LangEnglish
	}
	return LangUnknown
}

// LanguageVerdict is the analyzer's primary and secondary language guess.
type LanguageVerdict struct {
	Primary      Language `json:"primary"`
	Secondary    Language `json:"secondary"`
	Confidence   float64  `json:"confidence"`
	HebrewScore  float64  `json:"hebrew_score"`
	EnglishScore float64  `json:"english_score"`
}

// Signals are the independent scorer outputs, each in [0,1].
type Signals struct {
	LayoutMistake float64 `json:"layout_mistake"`
	Cleaning      float64 `json:"cleaning"`
	Grammar       float64 `json:"grammar"`
	Enhancement   float64 `json:"enhancement"`
	Translation   float64 `json:"translation"`
}

// Suggestion is one ranked operation.
type Suggestion struct {
	Operation     Operation `json:"operation"`
	Score         float64   `json:"score"`
	Justification string    `json:"justification"`
}

// Segment is a single-script run of a text with its own verdict.
type Segment struct {
	Text    string          `json:"text"`
	Script  string          `json:"script"`
	Verdict LanguageVerdict `json:"verdict"`
}

// Analysis is the combined output of the analyzer, scorer and ranker.
type Analysis struct {
	Text        string          `json:"text"`
	Stats       script.Stats    `json:"stats"`
	Verdict     LanguageVerdict `json:"verdict"`
	Signals     Signals         `json:"signals"`
	Suggestions []Suggestion    `json:"suggestions"`
	Best        Operation       `json:"best"`
	Segments    []Segment       `json:"segments,omitempty"`
}
