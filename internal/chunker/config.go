package chunker

import (
	"errors"
	"fmt"
)

// Default chunking parameters, in tokens
const (
	DefaultChunkSize    = 512
	DefaultChunkOverlap = 50
	DefaultMinChunkSize = 100
)

// ErrInvalidConfig is returned when a chunking configuration violates its
// constraints. Invalid values are never silently clamped; clamping would
// make the size guarantees unverifiable.
var ErrInvalidConfig = errors.New("invalid chunking configuration")

// Config is the immutable chunking configuration. All values are token
// counts under the configured counting strategy.
type Config struct {
	// ChunkSize is the target maximum tokens per chunk. Must be > 0.
	ChunkSize int

	// ChunkOverlap is the trailing context copied into the next chunk.
	// Must satisfy 0 <= ChunkOverlap < ChunkSize.
	ChunkOverlap int

	// MinChunkSize is the minimum tokens a chunk must contain, except for
	// the last chunk of a document. Must be <= ChunkSize.
	MinChunkSize int
}

// DefaultConfig returns the default chunking configuration (512/50/100).
func DefaultConfig() Config {
	return Config{
		ChunkSize:    DefaultChunkSize,
		ChunkOverlap: DefaultChunkOverlap,
		MinChunkSize: DefaultMinChunkSize,
	}
}

// Validate checks the configuration constraints. It is called before any
// scanning occurs; a rejected configuration never produces chunks.
func (c Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk_size must be positive, got %d", ErrInvalidConfig, c.ChunkSize)
	}
	if c.ChunkOverlap < 0 {
		return fmt.Errorf("%w: chunk_overlap must not be negative, got %d", ErrInvalidConfig, c.ChunkOverlap)
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("%w: chunk_overlap (%d) must be less than chunk_size (%d)",
			ErrInvalidConfig, c.ChunkOverlap, c.ChunkSize)
	}
	if c.MinChunkSize < 0 {
		return fmt.Errorf("%w: min_chunk_size must not be negative, got %d", ErrInvalidConfig, c.MinChunkSize)
	}
	if c.MinChunkSize > c.ChunkSize {
		return fmt.Errorf("%w: min_chunk_size (%d) must not exceed chunk_size (%d)",
			ErrInvalidConfig, c.MinChunkSize, c.ChunkSize)
	}
	return nil
}
