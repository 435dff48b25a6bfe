// Package summarizer condenses document text to a target word count.
//
// Two implementations exist: LLMSummarizer calls a chat completion provider
// (OpenAI or Anthropic) through the LLMClient interface, and
// TruncationSummarizer keeps the first N words as a deterministic fallback
// when no provider is configured. RetryClient and CacheClient decorate any
// LLMClient with exponential backoff and LRU completion caching.
package summarizer
