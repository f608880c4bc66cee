// Package vector provides the retrieval index: embedded history turns and
// curriculum content, queryable by cosine similarity.
package vector

import (
	"context"
	"database/sql"
	"fmt"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"

	"github.com/alfaia/alfaia/internal/domain"
)

func init() {
	// Register the sqlite-vec extension with the mattn/go-sqlite3 driver so
	// vec_distance_cosine is available on every new connection.
	sqlite_vec.Auto()
}

// Embedder turns text into an embedding vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Index is an additive-only vector index over history and curriculum text.
// It is a derived cache: losing it degrades retrieval quality, not
// correctness, and it can be rebuilt from the history log.
type Index struct {
	db       *sql.DB
	embedder Embedder
}

// NewIndex creates the index schema on the shared database handle.
func NewIndex(db *sql.DB, embedder Embedder) (*Index, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS vector_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		learner_key TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL,
		source_id TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL,
		embedding BLOB NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return nil, fmt.Errorf("failed to create vector_records table: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_vector_records_learner ON vector_records(learner_key)`); err != nil {
		return nil, fmt.Errorf("failed to create vector index: %w", err)
	}
	return &Index{db: db, embedder: embedder}, nil
}

// Add embeds and stores one record.
func (ix *Index) Add(ctx context.Context, rec domain.VectorRecord) error {
	if rec.Content == "" {
		return nil
	}
	embedding, err := ix.embedder.Embed(ctx, rec.Content)
	if err != nil {
		return &domain.AdapterError{Op: "embed", Err: err}
	}
	blob, err := sqlite_vec.SerializeFloat32(embedding)
	if err != nil {
		return fmt.Errorf("failed to serialize embedding: %w", err)
	}
	_, err = ix.db.ExecContext(ctx,
		`INSERT INTO vector_records (learner_key, source, source_id, content, embedding, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.LearnerKey, rec.Source, rec.SourceID, rec.Content, blob, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to store vector record: %w", err)
	}
	return nil
}

// CountSource returns how many records of a source are indexed. Seeding uses
// it to avoid duplicating the shared curriculum on restart.
func (ix *Index) CountSource(ctx context.Context, source string) (int, error) {
	var count int
	err := ix.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM vector_records WHERE source = ?`, source).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count vector records: %w", err)
	}
	return count, nil
}

// Query returns the top-k records most similar to text, drawn from the
// learner's own history plus the shared curriculum.
func (ix *Index) Query(ctx context.Context, learnerKey, text string, k int) ([]domain.Snippet, error) {
	if k <= 0 {
		k = 3
	}
	embedding, err := ix.embedder.Embed(ctx, text)
	if err != nil {
		return nil, &domain.AdapterError{Op: "embed", Err: err}
	}
	blob, err := sqlite_vec.SerializeFloat32(embedding)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize embedding: %w", err)
	}

	rows, err := ix.db.QueryContext(ctx,
		`SELECT content, source, vec_distance_cosine(embedding, ?) AS distance
		 FROM vector_records
		 WHERE learner_key = ? OR learner_key = ''
		 ORDER BY distance LIMIT ?`,
		blob, learnerKey, k)
	if err != nil {
		return nil, fmt.Errorf("failed to query vector records: %w", err)
	}
	defer rows.Close()

	var snippets []domain.Snippet
	for rows.Next() {
		var snippet domain.Snippet
		var distance float64
		if err := rows.Scan(&snippet.Content, &snippet.Source, &distance); err != nil {
			return nil, fmt.Errorf("failed to scan snippet: %w", err)
		}
		snippet.Similarity = 1.0 - distance
		snippets = append(snippets, snippet)
	}
	return snippets, rows.Err()
}
