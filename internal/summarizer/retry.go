package summarizer

import (
	"context"
	"fmt"
	"time"
)

// Retry configuration
const (
	MaxRetries        = 3
	InitialBackoffMs  = 200
	MaxBackoffMs      = 5000
	BackoffMultiplier = 2.0
)

// RetryConfig configures exponential backoff retry behavior
type RetryConfig struct {
	MaxRetries int           // Maximum number of retry attempts
	BaseDelay  time.Duration // Initial delay between retries
	MaxDelay   time.Duration // Maximum delay between retries
	Multiplier float64       // Exponential backoff multiplier
}

// DefaultRetryConfig returns sensible defaults for API retry
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: MaxRetries,
		BaseDelay:  time.Duration(InitialBackoffMs) * time.Millisecond,
		MaxDelay:   time.Duration(MaxBackoffMs) * time.Millisecond,
		Multiplier: BackoffMultiplier,
	}
}

// retryWithBackoff executes a function with exponential backoff retry logic.
// Retry is skipped on context cancellation.
func retryWithBackoff[T any](ctx context.Context, config RetryConfig, fn func() (T, error)) (T, error) {
	var lastErr error
	var zero T
	backoff := config.BaseDelay

	for attempt := 0; attempt < config.MaxRetries; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}

		lastErr = err

		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		if attempt < config.MaxRetries-1 {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(backoff):
				backoff = time.Duration(float64(backoff) * config.Multiplier)
				if backoff > config.MaxDelay {
					backoff = config.MaxDelay
				}
			}
		}
	}

	return zero, lastErr
}

// RetryClient decorates an LLMClient with exponential backoff retry.
type RetryClient struct {
	inner  LLMClient
	config RetryConfig
}

// NewRetryClient wraps a client with the given retry policy. A zero config
// uses DefaultRetryConfig.
func NewRetryClient(inner LLMClient, config RetryConfig) *RetryClient {
	if config.MaxRetries <= 0 {
		config = DefaultRetryConfig()
	}
	return &RetryClient{inner: inner, config: config}
}

func (c *RetryClient) CompleteChat(ctx context.Context, messages []Message, temperature float64) (string, error) {
	result, err := retryWithBackoff(ctx, c.config, func() (string, error) {
		return c.inner.CompleteChat(ctx, messages, temperature)
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", err
		}
		return "", fmt.Errorf("%w after %d retries: %v", ErrProviderFailed, c.config.MaxRetries, err)
	}
	return result, nil
}

func (c *RetryClient) Provider() string { return c.inner.Provider() }
func (c *RetryClient) Model() string    { return c.inner.Model() }
func (c *RetryClient) Close() error     { return c.inner.Close() }
