package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Search backends
const (
	BackendBleve       = "bleve"
	BackendMeilisearch = "meilisearch"
)

// ErrInvalidConfig is returned when the environment holds unusable values
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all runtime configuration, loaded from the environment.
type Config struct {
	// Chunking
	ChunkSize    int `env:"DOCPROC_CHUNK_SIZE" envDefault:"512"`
	ChunkOverlap int `env:"DOCPROC_CHUNK_OVERLAP" envDefault:"50"`
	MinChunkSize int `env:"DOCPROC_MIN_CHUNK_SIZE" envDefault:"100"`

	// Token counting
	TokenStrategy string `env:"DOCPROC_TOKEN_STRATEGY" envDefault:"heuristic"`
	TokenEncoding string `env:"DOCPROC_TOKEN_ENCODING" envDefault:"cl100k_base"`

	// Summarization
	SummaryTargetWords int    `env:"DOCPROC_SUMMARY_WORDS" envDefault:"150"`
	LLMProvider        string `env:"DOCPROC_LLM_PROVIDER"`

	// Search backend
	SearchBackend    string `env:"DOCPROC_SEARCH_BACKEND" envDefault:"bleve"`
	MeiliHost        string `env:"DOCPROC_MEILI_HOST" envDefault:"http://localhost:7700"`
	MeiliAPIKey      string `env:"DOCPROC_MEILI_API_KEY"`
	MeiliIndexPrefix string `env:"DOCPROC_MEILI_INDEX_PREFIX"`
	ChunkIndex       string `env:"DOCPROC_CHUNK_INDEX" envDefault:"chunks"`
	DocumentIndex    string `env:"DOCPROC_DOCUMENT_INDEX" envDefault:"documents"`

	// Storage
	DataDir string `env:"DOCPROC_DATA_DIR"`

	// Batch processing
	BatchConcurrency int `env:"DOCPROC_BATCH_CONCURRENCY" envDefault:"4"`

	// Logging
	LogLevel string `env:"DOCPROC_LOG_LEVEL" envDefault:"info"`
}

// Load reads configuration from a .env file (if present) and the process
// environment.
func Load() (*Config, error) {
	// Missing .env files are fine; explicit environment always wins.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("%w: resolving home directory: %v", ErrInvalidConfig, err)
		}
		cfg.DataDir = filepath.Join(home, ".docproc")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints that struct tags cannot express.
func (c *Config) Validate() error {
	switch c.SearchBackend {
	case BackendBleve, BackendMeilisearch:
	default:
		return fmt.Errorf("%w: unknown search backend %q", ErrInvalidConfig, c.SearchBackend)
	}
	if c.BatchConcurrency <= 0 {
		return fmt.Errorf("%w: batch concurrency must be positive, got %d", ErrInvalidConfig, c.BatchConcurrency)
	}
	return nil
}

// RegistryPath returns the SQLite registry location under the data dir.
func (c *Config) RegistryPath() string {
	return filepath.Join(c.DataDir, "registry.db")
}

// IndexDir returns the bleve index location under the data dir.
func (c *Config) IndexDir() string {
	return filepath.Join(c.DataDir, "indexes")
}
