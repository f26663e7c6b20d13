package corrector

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidConfig = errors.New("corrector: invalid config")
	// ErrUnknownOperation is returned by ParseOperation for names outside the
	// operation set.
	ErrUnknownOperation = errors.New("corrector: unknown operation")
	// ErrUnsupportedOperation marks operations that are suggested by the
	// ranker but carried out by an external service.
	ErrUnsupportedOperation = errors.New("corrector: operation is handled externally")
)

// Operation is a closed set of operation kinds the ranker can suggest.
type Operation uint8

const (
	OpNone Operation = iota
	OpLayoutFix
	OpCleanup
	OpEnhancement
	OpGrammar
	OpTranslation
)

var operationNames = [...]string{
	OpNone:        "none",
	OpLayoutFix:   "layout-fix",
	OpCleanup:     "cleanup",
	OpEnhancement: "enhancement",
	OpGrammar:     "grammar",
	OpTranslation: "translation",
}

var operationAliases = map[string]Operation{
	"fix_layout":   OpLayoutFix,
	"clean_text":   OpCleanup,
	"hebrew_nikud": OpEnhancement,
	"correct_text": OpGrammar,
	"translate":    OpTranslation,
}

func (o Operation) String() string {
	if int(o) < len(operationNames) {
		return operationNames[o]
	}
	return fmt.Sprintf("operation(%d)", o)
}

// Local reports whether the engine itself can carry the operation out.
func (o Operation) Local() bool {
	switch o {
	case OpNone, OpLayoutFix, OpCleanup:
		return true
	}
	return false
}

// ParseOperation resolves canonical names and their legacy aliases.
func ParseOperation(s string) (Operation, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for op, name := range operationNames {
		if name == s {
			return Operation(op), nil
		}
	}
	if op, ok := operationAliases[s]; ok {
		return op, nil
	}
	return OpNone, fmt.Errorf("%w: %q", ErrUnknownOperation, s)
}

func (o Operation) MarshalText() ([]byte, error) {
	if int(o) >= len(operationNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownOperation, o)
	}
	return []byte(o.String()), nil
}

func (o *Operation) UnmarshalText(b []byte) error {
	op, err := ParseOperation(string(b))
	if err != nil {
		return err
	}
	*o = op
	return nil
}
