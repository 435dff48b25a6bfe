package registry

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SQLiteRegistry implements Registry using SQLite
type SQLiteRegistry struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteRegistry opens (creating if needed) a registry database.
func NewSQLiteRegistry(dbPath string) (*SQLiteRegistry, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteRegistry{db: db}, nil
}

// Close closes the database connection
func (r *SQLiteRegistry) Close() error {
	return r.db.Close()
}

func (r *SQLiteRegistry) Upsert(ctx context.Context, doc *Document) error {
	query := `
		INSERT INTO documents (
			file_id, filename, project_id, content_hash, format,
			page_count, chunk_count, token_count, summary,
			processed_at, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(file_id) DO UPDATE SET
			filename = excluded.filename,
			project_id = excluded.project_id,
			content_hash = excluded.content_hash,
			format = excluded.format,
			page_count = excluded.page_count,
			chunk_count = excluded.chunk_count,
			token_count = excluded.token_count,
			summary = excluded.summary,
			processed_at = excluded.processed_at,
			updated_at = excluded.updated_at
	`
	now := time.Now()
	if doc.ProcessedAt.IsZero() {
		doc.ProcessedAt = now
	}
	_, err := r.db.ExecContext(ctx, query,
		doc.FileID, doc.Filename, doc.ProjectID, doc.ContentHash, doc.Format,
		doc.PageCount, doc.ChunkCount, doc.TokenCount, doc.Summary,
		doc.ProcessedAt, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert document %s: %w", doc.FileID, err)
	}

	row := r.db.QueryRowContext(ctx, "SELECT id, created_at FROM documents WHERE file_id = ?", doc.FileID)
	if err := row.Scan(&doc.ID, &doc.CreatedAt); err != nil {
		return fmt.Errorf("failed to read back document %s: %w", doc.FileID, err)
	}
	doc.UpdatedAt = now
	return nil
}

const documentColumns = `
	id, file_id, filename, project_id, content_hash, format,
	page_count, chunk_count, token_count, summary,
	processed_at, created_at, updated_at
`

func scanDocument(row interface{ Scan(...interface{}) error }) (*Document, error) {
	var doc Document
	var projectID sql.NullInt64
	var summary sql.NullString
	var processedAt sql.NullTime
	err := row.Scan(
		&doc.ID, &doc.FileID, &doc.Filename, &projectID, &doc.ContentHash, &doc.Format,
		&doc.PageCount, &doc.ChunkCount, &doc.TokenCount, &summary,
		&processedAt, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if projectID.Valid {
		doc.ProjectID = &projectID.Int64
	}
	doc.Summary = summary.String
	doc.ProcessedAt = processedAt.Time
	return &doc, nil
}

func (r *SQLiteRegistry) Get(ctx context.Context, fileID string) (*Document, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE file_id = ?", fileID)
	doc, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: document %s", ErrNotFound, fileID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", fileID, err)
	}
	return doc, nil
}

func (r *SQLiteRegistry) GetByHash(ctx context.Context, contentHash string) (*Document, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE content_hash = ? LIMIT 1", contentHash)
	doc, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: content hash %s", ErrNotFound, contentHash)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document by hash: %w", err)
	}
	return doc, nil
}

func (r *SQLiteRegistry) List(ctx context.Context, projectID *int64) ([]*Document, error) {
	query := "SELECT " + documentColumns + " FROM documents"
	var args []interface{}
	if projectID != nil {
		query += " WHERE project_id = ?"
		args = append(args, *projectID)
	}
	query += " ORDER BY filename"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var docs []*Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (r *SQLiteRegistry) Delete(ctx context.Context, fileID string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE file_id = ?", fileID)
	if err != nil {
		return fmt.Errorf("failed to delete document %s: %w", fileID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: document %s", ErrNotFound, fileID)
	}
	return nil
}

func (r *SQLiteRegistry) Stats(ctx context.Context) (*Stats, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(chunk_count), 0),
		       COALESCE(SUM(token_count), 0)
		FROM documents
	`)
	var stats Stats
	if err := row.Scan(&stats.Documents, &stats.TotalChunks, &stats.TotalTokens); err != nil {
		return nil, fmt.Errorf("failed to read stats: %w", err)
	}
	return &stats, nil
}
