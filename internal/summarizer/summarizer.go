package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/docproc/internal/tokenizer"
)

// Common errors
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrProviderFailed    = errors.New("llm provider failed")
	ErrNoProviderEnabled = errors.New("no llm provider configured")
	ErrEmptyCompletion   = errors.New("provider returned empty completion")
)

// Provider configuration
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderNone      = "none"

	// Default models
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultAnthropicModel = "claude-3-5-haiku-latest"

	// Generation defaults
	DefaultTargetWords = 150
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 1024

	// Input budget: prompts larger than this get truncated before the call
	DefaultInputTokenBudget = 8000

	// Environment variables
	EnvProvider        = "DOCPROC_LLM_PROVIDER"
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
)

// Message is one turn of a chat completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LLMClient completes a chat conversation. Implementations wrap a provider
// API; decorators add retry and caching around any client.
type LLMClient interface {
	// CompleteChat returns the assistant completion for the conversation.
	CompleteChat(ctx context.Context, messages []Message, temperature float64) (string, error)

	// Provider returns the provider name
	Provider() string

	// Model returns the model name
	Model() string

	// Close releases any resources held by the client
	Close() error
}

// Summarizer condenses text to approximately targetWords words.
type Summarizer interface {
	Summarize(ctx context.Context, text string, targetWords int) (string, error)
	Name() string
}

// LLMSummarizer produces abstractive summaries through an LLMClient. Input
// exceeding the token budget is truncated before the call so the prompt
// always fits the provider context window.
type LLMSummarizer struct {
	client      LLMClient
	counter     tokenizer.Counter
	temperature float64
	inputBudget int
}

// NewLLMSummarizer wraps an LLM client. A nil counter falls back to the
// heuristic tokenizer.
func NewLLMSummarizer(client LLMClient, counter tokenizer.Counter) *LLMSummarizer {
	if counter == nil {
		counter = &tokenizer.HeuristicCounter{}
	}
	return &LLMSummarizer{
		client:      client,
		counter:     counter,
		temperature: DefaultTemperature,
		inputBudget: DefaultInputTokenBudget,
	}
}

func (s *LLMSummarizer) Name() string {
	return fmt.Sprintf("llm:%s:%s", s.client.Provider(), s.client.Model())
}

func (s *LLMSummarizer) Summarize(ctx context.Context, text string, targetWords int) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: text cannot be empty", ErrInvalidInput)
	}
	if targetWords <= 0 {
		targetWords = DefaultTargetWords
	}

	text = s.truncateToBudget(text)

	messages := []Message{
		{
			Role: "system",
			Content: "You summarize documents. Respond with only the summary text, " +
				"no preamble and no headings.",
		},
		{
			Role: "user",
			Content: fmt.Sprintf(
				"Summarize the following document in approximately %d words:\n\n%s",
				targetWords, text),
		},
	}

	summary, err := s.client.CompleteChat(ctx, messages, s.temperature)
	if err != nil {
		return "", err
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return "", ErrEmptyCompletion
	}
	return summary, nil
}

// truncateToBudget cuts the text at a word boundary so its token count
// stays within the input budget.
func (s *LLMSummarizer) truncateToBudget(text string) string {
	if s.counter.Count(text) <= s.inputBudget {
		return text
	}

	runes := []rune(text)
	lo, hi := 0, len(runes)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if s.counter.Count(string(runes[:mid])) <= s.inputBudget {
			lo = mid
		} else {
			hi = mid - 1
		}
	}

	cut := string(runes[:lo])
	if idx := strings.LastIndexFunc(cut, func(r rune) bool { return r == ' ' || r == '\n' }); idx > 0 {
		cut = cut[:idx]
	}
	return cut
}
