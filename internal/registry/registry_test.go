package registry

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestRegistry(t *testing.T) *SQLiteRegistry {
	t.Helper()
	reg, err := NewSQLiteRegistry(filepath.Join(t.TempDir(), "registry.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = reg.Close() })
	return reg
}

func sampleDocument() *Document {
	projectID := int64(7)
	return &Document{
		FileID:      "file-001",
		Filename:    "report.pdf",
		ProjectID:   &projectID,
		ContentHash: ComputeContentHash([]byte("document body")),
		Format:      "pdf",
		PageCount:   12,
		ChunkCount:  34,
		TokenCount:  5600,
		Summary:     "A report about things.",
	}
}

func TestUpsertAndGet(t *testing.T) {
	reg := openTestRegistry(t)
	ctx := context.Background()

	doc := sampleDocument()
	require.NoError(t, reg.Upsert(ctx, doc))
	assert.NotZero(t, doc.ID)
	assert.False(t, doc.ProcessedAt.IsZero())

	got, err := reg.Get(ctx, "file-001")
	require.NoError(t, err)
	assert.Equal(t, doc.FileID, got.FileID)
	assert.Equal(t, doc.Filename, got.Filename)
	assert.Equal(t, doc.ContentHash, got.ContentHash)
	assert.Equal(t, 34, got.ChunkCount)
	require.NotNil(t, got.ProjectID)
	assert.Equal(t, int64(7), *got.ProjectID)
}

func TestUpsertReplaces(t *testing.T) {
	reg := openTestRegistry(t)
	ctx := context.Background()

	doc := sampleDocument()
	require.NoError(t, reg.Upsert(ctx, doc))
	firstID := doc.ID

	doc.ChunkCount = 99
	doc.Summary = "updated summary"
	require.NoError(t, reg.Upsert(ctx, doc))
	assert.Equal(t, firstID, doc.ID)

	got, err := reg.Get(ctx, "file-001")
	require.NoError(t, err)
	assert.Equal(t, 99, got.ChunkCount)
	assert.Equal(t, "updated summary", got.Summary)
}

func TestGetByHash(t *testing.T) {
	reg := openTestRegistry(t)
	ctx := context.Background()

	doc := sampleDocument()
	require.NoError(t, reg.Upsert(ctx, doc))

	got, err := reg.GetByHash(ctx, doc.ContentHash)
	require.NoError(t, err)
	assert.Equal(t, "file-001", got.FileID)

	_, err = reg.GetByHash(ctx, ComputeContentHash([]byte("other content")))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListScopedToProject(t *testing.T) {
	reg := openTestRegistry(t)
	ctx := context.Background()

	p1, p2 := int64(1), int64(2)
	docs := []*Document{
		{FileID: "a", Filename: "a.txt", ProjectID: &p1, ContentHash: "h1"},
		{FileID: "b", Filename: "b.txt", ProjectID: &p2, ContentHash: "h2"},
		{FileID: "c", Filename: "c.txt", ContentHash: "h3"},
	}
	for _, d := range docs {
		require.NoError(t, reg.Upsert(ctx, d))
	}

	all, err := reg.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	scoped, err := reg.List(ctx, &p1)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "a", scoped[0].FileID)

	// The unscoped record has no project.
	for _, d := range all {
		if d.FileID == "c" {
			assert.Nil(t, d.ProjectID)
		}
	}
}

func TestDelete(t *testing.T) {
	reg := openTestRegistry(t)
	ctx := context.Background()

	doc := sampleDocument()
	require.NoError(t, reg.Upsert(ctx, doc))
	require.NoError(t, reg.Delete(ctx, "file-001"))

	_, err := reg.Get(ctx, "file-001")
	assert.ErrorIs(t, err, ErrNotFound)

	err = reg.Delete(ctx, "file-001")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStats(t *testing.T) {
	reg := openTestRegistry(t)
	ctx := context.Background()

	stats, err := reg.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Documents)

	require.NoError(t, reg.Upsert(ctx, &Document{
		FileID: "a", Filename: "a.txt", ContentHash: "h1", ChunkCount: 10, TokenCount: 1000,
	}))
	require.NoError(t, reg.Upsert(ctx, &Document{
		FileID: "b", Filename: "b.txt", ContentHash: "h2", ChunkCount: 5, TokenCount: 400,
	}))

	stats, err = reg.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Documents)
	assert.Equal(t, 15, stats.TotalChunks)
	assert.Equal(t, 1400, stats.TotalTokens)
}

func TestComputeContentHash(t *testing.T) {
	h1 := ComputeContentHash([]byte("same"))
	h2 := ComputeContentHash([]byte("same"))
	h3 := ComputeContentHash([]byte("different"))
	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64)
}

func TestMigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.db")
	reg, err := NewSQLiteRegistry(path)
	require.NoError(t, err)
	require.NoError(t, reg.Upsert(context.Background(), sampleDocument()))
	require.NoError(t, reg.Close())

	// Reopening applies no migrations and keeps the data.
	reg, err = NewSQLiteRegistry(path)
	require.NoError(t, err)
	defer func() { _ = reg.Close() }()

	got, err := reg.Get(context.Background(), "file-001")
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", got.Filename)
}
