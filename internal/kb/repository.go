package kb

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

type Repository interface {
	InsertChunk(ctx context.Context, c *DocChunk, embedding []float32) (int64, error)
	GetChunksByIDs(ctx context.Context, ids []int64) ([]DocChunk, error)
	SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]DocChunk, error)
}

type PgRepository struct {
	db *pgxpool.Pool
}

func NewPgRepository(db *pgxpool.Pool) *PgRepository {
	return &PgRepository{db: db}
}

func (r *PgRepository) InsertChunk(ctx context.Context, c *DocChunk, embedding []float32) (int64, error) {
	var id int64

	err := r.db.QueryRow(ctx, `
		INSERT INTO med_chunk (category, title, content, source_url, tags)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`,
		c.Category,
		c.Title,
		c.Content,
		c.SourceURL,
		c.Tags,
	).Scan(&id)
	if err != nil {
		return 0, err
	}

	if embedding != nil {
		vec := pgvector.NewVector(embedding)
		_, err = r.db.Exec(ctx, `
			INSERT INTO med_chunk_embedding (chunk_id, embedding)
			VALUES ($1, $2)
		`, id, vec)
		if err != nil {
			return 0, err
		}
	}

	return id, nil
}

func (r *PgRepository) GetChunksByIDs(ctx context.Context, ids []int64) ([]DocChunk, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, category, title, content, source_url, tags, created_at, updated_at
		FROM med_chunk
		WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanChunks(rows)
}

// SearchSimilar runs the vector search over the whole knowledge base.
func (r *PgRepository) SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]DocChunk, error) {
	if limit <= 0 {
		limit = 3
	}

	vec := pgvector.NewVector(embedding)

	rows, err := r.db.Query(ctx, `
		SELECT
			c.id, c.category, c.title, c.content,
			c.source_url, c.tags, c.created_at, c.updated_at
		FROM med_chunk c
		JOIN med_chunk_embedding e ON c.id = e.chunk_id
		ORDER BY e.embedding <-> $1
		LIMIT $2
	`, vec, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanChunks(rows)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanChunks(rows rowScanner) ([]DocChunk, error) {
	var chunks []DocChunk
	for rows.Next() {
		var c DocChunk
		if err := rows.Scan(
			&c.ID,
			&c.Category,
			&c.Title,
			&c.Content,
			&c.SourceURL,
			&c.Tags,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}
