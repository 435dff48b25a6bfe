package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	ErrIndexNotFound = errors.New("index not found")
	ErrInvalidFilter = errors.New("invalid filter expression")
	ErrStoreFailed   = errors.New("document store operation failed")
)

// PreviewLength bounds the chunk_preview field stored alongside indexed
// chunks.
const PreviewLength = 160

// Document is one searchable record. Every document carries its primary key
// under the "id" field.
type Document map[string]interface{}

// Filter restricts an operation to documents whose field equals a value.
type Filter struct {
	Field string
	Value string
}

// ParseFilter parses a "field = value" expression.
func ParseFilter(expr string) (Filter, error) {
	field, value, found := strings.Cut(expr, "=")
	if !found {
		return Filter{}, fmt.Errorf("%w: %q", ErrInvalidFilter, expr)
	}
	f := Filter{
		Field: strings.TrimSpace(field),
		Value: strings.TrimSpace(value),
	}
	if f.Field == "" || f.Value == "" {
		return Filter{}, fmt.Errorf("%w: %q", ErrInvalidFilter, expr)
	}
	return f, nil
}

// String renders the filter in Meilisearch expression syntax.
func (f Filter) String() string {
	return fmt.Sprintf("%s = %q", f.Field, f.Value)
}

// IsZero reports whether the filter is unset.
func (f Filter) IsZero() bool {
	return f.Field == ""
}

// SearchOptions control one search call.
type SearchOptions struct {
	Limit  int
	Filter Filter
}

// DefaultSearchLimit applies when SearchOptions.Limit is zero
const DefaultSearchLimit = 10

// Hit is one search result.
type Hit struct {
	ID     string
	Score  float64
	Fields map[string]interface{}
}

// SearchResults holds the hits for one query.
type SearchResults struct {
	Hits  []Hit
	Total uint64
}

// Store indexes and searches documents. Implementations exist for embedded
// bleve indexes and a remote Meilisearch server.
type Store interface {
	// CreateIndex ensures the named index exists with the given primary key.
	CreateIndex(ctx context.Context, name, primaryKey string) error

	// Upsert adds documents to the index, replacing documents with the
	// same primary key.
	Upsert(ctx context.Context, index string, docs []Document) error

	// Delete removes one document by primary key.
	Delete(ctx context.Context, index, id string) error

	// DeleteByFilter removes every document matching the filter.
	DeleteByFilter(ctx context.Context, index string, filter Filter) error

	// Search runs a full-text query against the index.
	Search(ctx context.Context, index, query string, opts SearchOptions) (*SearchResults, error)

	// Close releases store resources.
	Close() error
}

// docID extracts the primary key from a document.
func docID(doc Document) (string, error) {
	id, ok := doc["id"].(string)
	if !ok || id == "" {
		return "", fmt.Errorf("%w: document missing string id field", ErrStoreFailed)
	}
	return id, nil
}
