package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// TiktokenCounter counts tokens exactly using a BPE encoding. The encoding
// is loaded once at construction and reused for every call.
type TiktokenCounter struct {
	encoding string
	enc      *tiktoken.Tiktoken
}

// NewTiktokenCounter creates an exact counter bound to the named encoding
// (e.g. "cl100k_base").
func NewTiktokenCounter(encoding string) (*TiktokenCounter, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiktoken encoding %s: %w", encoding, err)
	}
	return &TiktokenCounter{encoding: encoding, enc: enc}, nil
}

// Count returns the exact BPE token count of text.
func (t *TiktokenCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(t.enc.Encode(text, nil, nil))
}

// Name returns the strategy name with its encoding.
func (t *TiktokenCounter) Name() string {
	return StrategyTiktoken + ":" + t.encoding
}
