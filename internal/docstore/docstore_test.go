package docstore

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilter(t *testing.T) {
	tests := []struct {
		expr    string
		want    Filter
		wantErr bool
	}{
		{expr: "file_id = abc123", want: Filter{Field: "file_id", Value: "abc123"}},
		{expr: "project_id=7", want: Filter{Field: "project_id", Value: "7"}},
		{expr: "no equals sign", wantErr: true},
		{expr: "= value", wantErr: true},
		{expr: "field =", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseFilter(tt.expr)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidFilter, "expr %q", tt.expr)
			continue
		}
		require.NoError(t, err, "expr %q", tt.expr)
		assert.Equal(t, tt.want, got)
	}
}

func seedStore(t *testing.T) *BleveStore {
	t.Helper()
	store := NewMemStore()
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.CreateIndex(context.Background(), "chunks", "id"))

	docs := []Document{
		{"id": "doc1-0", "content": "the quick brown fox", "file_id": "doc1", "chunk_number": 0},
		{"id": "doc1-1", "content": "jumps over the lazy dog", "file_id": "doc1", "chunk_number": 1},
		{"id": "doc2-0", "content": "a quick overview of foxes", "file_id": "doc2", "chunk_number": 0},
	}
	require.NoError(t, store.Upsert(context.Background(), "chunks", docs))
	return store
}

func TestBleveStoreSearch(t *testing.T) {
	store := seedStore(t)

	results, err := store.Search(context.Background(), "chunks", "quick fox", SearchOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, results.Hits)

	ids := make([]string, 0, len(results.Hits))
	for _, hit := range results.Hits {
		ids = append(ids, hit.ID)
		assert.Greater(t, hit.Score, 0.0)
	}
	assert.Contains(t, ids, "doc1-0")
	assert.Contains(t, ids, "doc2-0")
}

func TestBleveStoreSearchFields(t *testing.T) {
	store := seedStore(t)

	results, err := store.Search(context.Background(), "chunks", "lazy dog", SearchOptions{Limit: 1})
	require.NoError(t, err)
	require.Len(t, results.Hits, 1)

	hit := results.Hits[0]
	assert.Equal(t, "doc1-1", hit.ID)
	assert.Equal(t, "jumps over the lazy dog", hit.Fields["content"])
	assert.Equal(t, "doc1", hit.Fields["file_id"])
}

func TestBleveStoreSearchWithFilter(t *testing.T) {
	store := seedStore(t)

	results, err := store.Search(context.Background(), "chunks", "quick", SearchOptions{
		Filter: Filter{Field: "file_id", Value: "doc2"},
	})
	require.NoError(t, err)
	require.Len(t, results.Hits, 1)
	assert.Equal(t, "doc2-0", results.Hits[0].ID)
}

func TestBleveStoreUpsertReplaces(t *testing.T) {
	store := seedStore(t)

	require.NoError(t, store.Upsert(context.Background(), "chunks", []Document{
		{"id": "doc1-0", "content": "completely rewritten text", "file_id": "doc1", "chunk_number": 0},
	}))

	results, err := store.Search(context.Background(), "chunks", "rewritten", SearchOptions{})
	require.NoError(t, err)
	require.Len(t, results.Hits, 1)
	assert.Equal(t, "doc1-0", results.Hits[0].ID)

	results, err = store.Search(context.Background(), "chunks", "brown", SearchOptions{})
	require.NoError(t, err)
	assert.Empty(t, results.Hits)
}

func TestBleveStoreDelete(t *testing.T) {
	store := seedStore(t)

	require.NoError(t, store.Delete(context.Background(), "chunks", "doc1-1"))

	results, err := store.Search(context.Background(), "chunks", "lazy dog", SearchOptions{})
	require.NoError(t, err)
	assert.Empty(t, results.Hits)
}

func TestBleveStoreDeleteByFilter(t *testing.T) {
	store := seedStore(t)

	require.NoError(t, store.DeleteByFilter(context.Background(), "chunks", Filter{
		Field: "file_id",
		Value: "doc1",
	}))

	results, err := store.Search(context.Background(), "chunks", "quick", SearchOptions{})
	require.NoError(t, err)
	require.Len(t, results.Hits, 1)
	assert.Equal(t, "doc2-0", results.Hits[0].ID)

	err = store.DeleteByFilter(context.Background(), "chunks", Filter{})
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

// Identity values often contain characters the standard analyzer splits on.
// Filters must still match them verbatim.
func TestBleveStoreFilterExactValues(t *testing.T) {
	store := NewMemStore()
	t.Cleanup(func() { _ = store.Close() })

	docs := []Document{
		{"id": "doc-42-0", "content": "alpha staffing report", "file_id": "doc-42", "filename": "staffing report.txt"},
		{"id": "doc-43-0", "content": "alpha hiring plan", "file_id": "doc-43", "filename": "hiring plan.txt"},
	}
	require.NoError(t, store.Upsert(context.Background(), "chunks", docs))

	results, err := store.Search(context.Background(), "chunks", "alpha", SearchOptions{
		Filter: Filter{Field: "file_id", Value: "doc-42"},
	})
	require.NoError(t, err)
	require.Len(t, results.Hits, 1)
	assert.Equal(t, "doc-42-0", results.Hits[0].ID)

	results, err = store.Search(context.Background(), "chunks", "alpha", SearchOptions{
		Filter: Filter{Field: "filename", Value: "hiring plan.txt"},
	})
	require.NoError(t, err)
	require.Len(t, results.Hits, 1)
	assert.Equal(t, "doc-43-0", results.Hits[0].ID)

	require.NoError(t, store.DeleteByFilter(context.Background(), "chunks", Filter{
		Field: "file_id",
		Value: "doc-42",
	}))

	results, err = store.Search(context.Background(), "chunks", "alpha", SearchOptions{})
	require.NoError(t, err)
	require.Len(t, results.Hits, 1)
	assert.Equal(t, "doc-43-0", results.Hits[0].ID)
}

func TestBleveStoreSearchLimit(t *testing.T) {
	store := NewMemStore()
	t.Cleanup(func() { _ = store.Close() })

	docs := make([]Document, 25)
	for i := range docs {
		docs[i] = Document{
			"id":      fmt.Sprintf("chunk-%d", i),
			"content": "shared searchable phrase",
		}
	}
	require.NoError(t, store.Upsert(context.Background(), "chunks", docs))

	results, err := store.Search(context.Background(), "chunks", "searchable phrase", SearchOptions{Limit: 5})
	require.NoError(t, err)
	assert.Len(t, results.Hits, 5)
	assert.Equal(t, uint64(25), results.Total)

	results, err = store.Search(context.Background(), "chunks", "searchable phrase", SearchOptions{})
	require.NoError(t, err)
	assert.Len(t, results.Hits, DefaultSearchLimit)
}

func TestBleveStoreUnknownIndex(t *testing.T) {
	store := NewMemStore()
	t.Cleanup(func() { _ = store.Close() })

	_, err := store.Search(context.Background(), "nope", "anything", SearchOptions{})
	assert.ErrorIs(t, err, ErrIndexNotFound)

	err = store.Delete(context.Background(), "nope", "id")
	assert.ErrorIs(t, err, ErrIndexNotFound)
}

func TestBleveStoreMissingDocumentID(t *testing.T) {
	store := NewMemStore()
	t.Cleanup(func() { _ = store.Close() })

	err := store.Upsert(context.Background(), "chunks", []Document{{"content": "no id"}})
	assert.ErrorIs(t, err, ErrStoreFailed)
}

func TestBleveStorePersistentPath(t *testing.T) {
	dir := t.TempDir()
	store := NewBleveStore(dir)

	require.NoError(t, store.Upsert(context.Background(), "chunks", []Document{
		{"id": "a", "content": "persisted content"},
	}))
	require.NoError(t, store.Close())

	reopened := NewBleveStore(dir)
	t.Cleanup(func() { _ = reopened.Close() })

	results, err := reopened.Search(context.Background(), "chunks", "persisted", SearchOptions{})
	require.NoError(t, err)
	require.Len(t, results.Hits, 1)
	assert.Equal(t, "a", results.Hits[0].ID)
}
