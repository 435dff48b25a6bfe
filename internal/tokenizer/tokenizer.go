package tokenizer

import (
	"errors"
	"fmt"
	"strings"
)

// Counting strategies
const (
	StrategyHeuristic = "heuristic"
	StrategyTiktoken  = "tiktoken"

	// CharsPerToken is the heuristic ratio for estimating tokens (chars/4)
	CharsPerToken = 4

	// DefaultEncoding is the tiktoken encoding used when none is specified
	DefaultEncoding = "cl100k_base"
)

// ErrUnknownStrategy is returned for unrecognized counting strategies
var ErrUnknownStrategy = errors.New("unknown token counting strategy")

// Counter counts how many model tokens a text span consumes. Implementations
// are pure: the same input always produces the same count, counts are never
// negative, and non-empty input never counts as zero.
type Counter interface {
	Count(text string) int
	Name() string
}

// HeuristicCounter approximates token counts at one token per ~4 characters.
// It needs no tokenizer data and is the default when exact counts are not
// required.
type HeuristicCounter struct{}

// NewHeuristicCounter creates a chars/4 approximate counter.
func NewHeuristicCounter() *HeuristicCounter {
	return &HeuristicCounter{}
}

// Count estimates the token count of text. Non-empty text always counts as
// at least one token.
func (h *HeuristicCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	n := len(text) / CharsPerToken
	if n == 0 {
		n = 1
	}
	return n
}

// Name returns the strategy name.
func (h *HeuristicCounter) Name() string {
	return StrategyHeuristic
}

// New creates a counter for the named strategy. The tiktoken strategy loads
// the named encoding once at construction (DefaultEncoding when empty); the
// returned counter is safe for concurrent use.
func New(strategy, encoding string) (Counter, error) {
	switch strings.ToLower(strategy) {
	case "", StrategyHeuristic:
		return NewHeuristicCounter(), nil
	case StrategyTiktoken:
		if encoding == "" {
			encoding = DefaultEncoding
		}
		return NewTiktokenCounter(encoding)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, strategy)
	}
}
