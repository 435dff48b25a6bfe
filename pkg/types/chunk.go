package types

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

// DocumentIdentity carries the provenance attributes copied onto every chunk
// produced from a document. Filename is the only required field.
type DocumentIdentity struct {
	FileID    string            `json:"file_id,omitempty"`
	OutputID  string            `json:"output_id,omitempty"`
	ProjectID *int64            `json:"project_id,omitempty"`
	Filename  string            `json:"filename"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// IDBase returns the string chunk identifiers are derived from: the file ID
// when present, otherwise the filename.
func (d DocumentIdentity) IDBase() string {
	if d.FileID != "" {
		return d.FileID
	}
	return d.Filename
}

// Validate checks that the identity can produce stable chunk IDs.
func (d DocumentIdentity) Validate() error {
	if d.Filename == "" && d.FileID == "" {
		return ErrMissingFilename
	}
	return nil
}

// DocumentChunk is the persisted unit of chunked text. Instances are created
// by the chunker and never mutated afterwards.
type DocumentChunk struct {
	ChunkID     string            `json:"chunk_id"`
	ChunkText   string            `json:"chunk_text"`
	ChunkNumber int               `json:"chunk_number"`
	TotalChunks int               `json:"total_chunks"`
	TokenCount  int               `json:"token_count"`
	FileID      string            `json:"file_id,omitempty"`
	OutputID    string            `json:"output_id,omitempty"`
	ProjectID   *int64            `json:"project_id,omitempty"`
	Filename    string            `json:"filename"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// ChunkID derives the stable identifier for chunk n of the document named by
// idBase. The same inputs always produce the same ID, which keeps
// re-indexing idempotent.
func ChunkID(idBase string, chunkNumber int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d", idBase, chunkNumber)))
	return hex.EncodeToString(sum[:16])
}

// Validate performs structural validation of the chunk.
func (c *DocumentChunk) Validate() error {
	if c.ChunkID == "" {
		return ErrInvalidChunkID
	}
	if c.ChunkText == "" {
		return ErrEmptyContent
	}
	if c.ChunkNumber < 0 {
		return errors.New("chunk number must be >= 0")
	}
	if c.TotalChunks < 1 {
		return errors.New("total chunks must be >= 1")
	}
	if c.ChunkNumber >= c.TotalChunks {
		return errors.New("chunk number must be less than total chunks")
	}
	if c.TokenCount <= 0 {
		return errors.New("token count must be positive")
	}
	return nil
}

// Preview returns the first n characters of the chunk text, used as the
// chunk_preview field in search documents.
func (c *DocumentChunk) Preview(n int) string {
	runes := []rune(c.ChunkText)
	if len(runes) <= n {
		return c.ChunkText
	}
	return string(runes[:n])
}
