package summarizer

import (
	"context"
	"strings"
)

// TruncationSummarizer is the no-LLM fallback. It returns the first
// targetWords words of the text, with an ellipsis when anything was cut.
type TruncationSummarizer struct{}

func (s *TruncationSummarizer) Name() string { return "truncation" }

func (s *TruncationSummarizer) Summarize(_ context.Context, text string, targetWords int) (string, error) {
	if targetWords <= 0 {
		targetWords = DefaultTargetWords
	}
	words := strings.Fields(text)
	if len(words) <= targetWords {
		return strings.Join(words, " "), nil
	}
	return strings.Join(words[:targetWords], " ") + "...", nil
}
