package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 512, cfg.ChunkSize)
	assert.Equal(t, 50, cfg.ChunkOverlap)
	assert.Equal(t, 100, cfg.MinChunkSize)
	assert.Equal(t, "heuristic", cfg.TokenStrategy)
	assert.Equal(t, BackendBleve, cfg.SearchBackend)
	assert.Equal(t, "chunks", cfg.ChunkIndex)
	assert.NotEmpty(t, cfg.DataDir)
	assert.Contains(t, cfg.RegistryPath(), "registry.db")
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DOCPROC_CHUNK_SIZE", "256")
	t.Setenv("DOCPROC_TOKEN_STRATEGY", "tiktoken")
	t.Setenv("DOCPROC_SEARCH_BACKEND", "meilisearch")
	t.Setenv("DOCPROC_MEILI_HOST", "http://search.internal:7700")
	t.Setenv("DOCPROC_DATA_DIR", "/var/lib/docproc")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 256, cfg.ChunkSize)
	assert.Equal(t, "tiktoken", cfg.TokenStrategy)
	assert.Equal(t, BackendMeilisearch, cfg.SearchBackend)
	assert.Equal(t, "http://search.internal:7700", cfg.MeiliHost)
	assert.Equal(t, "/var/lib/docproc/registry.db", cfg.RegistryPath())
}

func TestValidate(t *testing.T) {
	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("DOCPROC_SEARCH_BACKEND", "elasticsearch")
		_, err := Load()
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("non-positive concurrency", func(t *testing.T) {
		t.Setenv("DOCPROC_BATCH_CONCURRENCY", "0")
		_, err := Load()
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}
