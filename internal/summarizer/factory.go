package summarizer

import (
	"fmt"
	"os"
	"strings"

	"github.com/dshills/docproc/internal/tokenizer"
)

// Config holds summarizer configuration
type Config struct {
	Provider  string
	APIKey    string
	Model     string
	CacheSize int
	Counter   tokenizer.Counter
}

// NewFromEnv creates a summarizer based on environment variables.
// Priority:
// 1. DOCPROC_LLM_PROVIDER (openai, anthropic, none)
// 2. Check for API keys: OPENAI_API_KEY, ANTHROPIC_API_KEY
// 3. Default to truncation if no API keys found
func NewFromEnv() (Summarizer, error) {
	return New(Config{})
}

// New creates a summarizer with explicit configuration. An empty provider
// falls back to environment detection; LLM-backed summarizers get retry and
// caching decorators around the raw client.
func New(cfg Config) (Summarizer, error) {
	provider := strings.ToLower(cfg.Provider)
	if provider == "" {
		provider = DetectProvider()
	}

	var client LLMClient
	var err error
	switch provider {
	case ProviderOpenAI:
		client, err = NewOpenAIClient(cfg.APIKey, cfg.Model)
	case ProviderAnthropic:
		client, err = NewAnthropicClient(cfg.APIKey, cfg.Model)
	case ProviderNone, "truncation":
		return &TruncationSummarizer{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %s", ErrNoProviderEnabled, cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	wrapped := NewCacheClient(NewRetryClient(client, DefaultRetryConfig()), cfg.CacheSize)
	return NewLLMSummarizer(wrapped, cfg.Counter), nil
}

// DetectProvider returns the provider that would be used based on current
// environment
func DetectProvider() string {
	provider := strings.ToLower(os.Getenv(EnvProvider))
	if provider != "" {
		return provider
	}
	if os.Getenv(EnvOpenAIAPIKey) != "" {
		return ProviderOpenAI
	}
	if os.Getenv(EnvAnthropicAPIKey) != "" {
		return ProviderAnthropic
	}
	return ProviderNone
}
