package corrector

import (
	"regexp"
	"strings"
)

// Cleaner removes formatting artifacts. Rules run in a fixed order so that
// cleaning an already clean text is a no-op.
type Cleaner struct {
	rules []rule
}

type rule struct {
	re   *regexp.Regexp
	repl string
}

var defaultCleaner = NewCleaner()

// NewCleaner compiles the cleanup rules.
func NewCleaner() *Cleaner {
	return &Cleaner{rules: []rule{
		{regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x{200B}-\x{200D}\x{FEFF}]`), ""},
		{regexp.MustCompile(`\r\n?`), "\n"},
		{regexp.MustCompile(`_{2,}`), ""},
		{regexp.MustCompile(`\.{4,}`), "..."},
		{regexp.MustCompile(`!{2,}`), "!"},
		{regexp.MustCompile(`\?{2,}`), "?"},
		{regexp.MustCompile(`[^\S\n]+`), " "},
		{regexp.MustCompile(` ?\n ?`), "\n"},
		{regexp.MustCompile(`\n{3,}`), "\n\n"},
	}}
}

// Clean applies every rule and trims the result.
func (c *Cleaner) Clean(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	for _, r := range c.rules {
		text = r.re.ReplaceAllString(text, r.repl)
	}
	return strings.TrimSpace(text)
}

// Clean removes formatting artifacts from text.
func (e *Engine) Clean(text string) string {
	return defaultCleaner.Clean(text)
}
