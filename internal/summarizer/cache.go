package summarizer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the completion cache
const DefaultCacheSize = 1000

// CacheClient decorates an LLMClient with in-memory LRU caching of
// completions. The key covers the full conversation and the temperature, so
// identical requests never hit the provider twice.
type CacheClient struct {
	inner LLMClient
	cache *lru.Cache[string, string]
}

// NewCacheClient wraps a client with a completion cache of maxLen entries.
func NewCacheClient(inner LLMClient, maxLen int) *CacheClient {
	if maxLen <= 0 {
		maxLen = DefaultCacheSize
	}
	cache, err := lru.New[string, string](maxLen)
	if err != nil {
		cache, _ = lru.New[string, string](DefaultCacheSize)
	}
	return &CacheClient{inner: inner, cache: cache}
}

func (c *CacheClient) CompleteChat(ctx context.Context, messages []Message, temperature float64) (string, error) {
	key := completionKey(c.inner.Provider(), c.inner.Model(), messages, temperature)
	if result, ok := c.cache.Get(key); ok {
		return result, nil
	}

	result, err := c.inner.CompleteChat(ctx, messages, temperature)
	if err != nil {
		return "", err
	}
	c.cache.Add(key, result)
	return result, nil
}

// Size returns the current cache size
func (c *CacheClient) Size() int {
	return c.cache.Len()
}

func (c *CacheClient) Provider() string { return c.inner.Provider() }
func (c *CacheClient) Model() string    { return c.inner.Model() }
func (c *CacheClient) Close() error     { return c.inner.Close() }

// completionKey hashes provider, model, temperature, and every message into
// a stable cache key.
func completionKey(provider, model string, messages []Message, temperature float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%s|%.4f", provider, model, temperature)
	for _, m := range messages {
		fmt.Fprintf(&b, "|%s:%s", m.Role, m.Content)
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
