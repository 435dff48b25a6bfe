package registry

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a requested document doesn't exist
	ErrNotFound = errors.New("not found")
)

// Document is the processing record for one file. FileID is the external
// identity; ContentHash lets re-processing skip unchanged files.
type Document struct {
	ID          int64
	FileID      string
	Filename    string
	ProjectID   *int64
	ContentHash string
	Format      string
	PageCount   int
	ChunkCount  int
	TokenCount  int
	Summary     string
	ProcessedAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Stats aggregates the registry contents.
type Stats struct {
	Documents   int
	TotalChunks int
	TotalTokens int
}

// Registry tracks which documents have been processed.
type Registry interface {
	// Upsert inserts or replaces the record for doc.FileID.
	Upsert(ctx context.Context, doc *Document) error

	// Get returns the record for a file ID.
	Get(ctx context.Context, fileID string) (*Document, error)

	// GetByHash returns the record with the given content hash.
	GetByHash(ctx context.Context, contentHash string) (*Document, error)

	// List returns all records, optionally scoped to a project.
	List(ctx context.Context, projectID *int64) ([]*Document, error)

	// Delete removes the record for a file ID.
	Delete(ctx context.Context, fileID string) error

	// Stats returns aggregate counts.
	Stats(ctx context.Context) (*Stats, error)

	// Close releases registry resources.
	Close() error
}

// ComputeContentHash returns the hex SHA-256 of raw file content.
func ComputeContentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
