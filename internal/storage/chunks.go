package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"codeberg.org/taxdesk/server/internal/chunker"
	"codeberg.org/taxdesk/server/internal/logger"
)

// SearchResult is one retrieved chunk with its cosine similarity to
// the query, higher meaning closer.
type SearchResult struct {
	ID          string
	Content     string
	Source      string
	ChunkIndex  int
	TotalChunks int
	Metadata    map[string]string
	Similarity  float32
}

type CollectionInfo struct {
	Name       string
	ChunkCount int
	Dimension  int
	Sources    []string
}

// a chunk prepared for upsert. embedding is nil for chunks whose
// batch failed, stored without a vector so their content survives.
type chunkRow struct {
	id          string
	content     string
	embedding   []float32
	source      string
	chunkIndex  int
	totalChunks int
	metadata    map[string]string
}

// upserts chunks with their embeddings in a single transaction and
// returns how many rows were written. chunks with whitespace-only
// content are skipped; an embedding with the wrong dimension aborts
// with ErrDimensionMismatch.
func (c *Client) Add(ctx context.Context, chunks []chunker.Chunk, embeddings [][]float32) (int, error) {
	if len(chunks) != len(embeddings) {
		return 0, fmt.Errorf("chunks and embeddings length mismatch: %d != %d", len(chunks), len(embeddings))
	}

	rows, skipped, err := prepareRows(chunks, embeddings, c.dimension)
	if err != nil {
		return 0, err
	}

	if skipped > 0 {
		logger.Warn("skipping empty chunks", "collection", c.collection, "skipped", skipped)
	}

	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	// no-op if commit succeeds
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			logger.Warn("failed to rollback transaction", "error", err)
		}
	}()

	batch := &pgx.Batch{}
	query := fmt.Sprintf(upsertChunkQuery, c.collection)

	for _, row := range rows {
		var embedding any
		if row.embedding != nil {
			embedding = pgvector.NewVector(row.embedding)
		}

		batch.Queue(query,
			row.id,
			row.content,
			embedding,
			row.source,
			row.chunkIndex,
			row.totalChunks,
			row.metadata,
		)
	}

	br := tx.SendBatch(ctx, batch)

	for i := range len(rows) {
		if _, err := br.Exec(); err != nil {
			br.Close() //nolint:errcheck,gosec // G104: error path cleanup
			return 0, fmt.Errorf("failed to upsert chunk %d: %w", i, err)
		}
	}

	if err := br.Close(); err != nil {
		return 0, fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return len(rows), nil
}

// validates and pairs chunks with embeddings ahead of the transaction
func prepareRows(chunks []chunker.Chunk, embeddings [][]float32, dimension int) ([]chunkRow, int, error) {
	rows := make([]chunkRow, 0, len(chunks))
	skipped := 0

	for i, chunk := range chunks {
		if strings.TrimSpace(chunk.Text) == "" {
			skipped++
			continue
		}

		embedding := embeddings[i]
		if len(embedding) > 0 && len(embedding) != dimension {
			return nil, 0, fmt.Errorf("%w: chunk %q has %d, collection expects %d",
				ErrDimensionMismatch, chunk.ID, len(embedding), dimension)
		}

		if len(embedding) == 0 {
			embedding = nil
		}

		rows = append(rows, chunkRow{
			id:          chunk.ID,
			content:     chunk.Text,
			embedding:   embedding,
			source:      chunk.SourceID,
			chunkIndex:  chunk.Index,
			totalChunks: chunk.TotalChunks,
			metadata:    chunkMetadata(chunk),
		})
	}

	return rows, skipped, nil
}

// flattens chunk attributes into string scalars for the jsonb column
func chunkMetadata(chunk chunker.Chunk) map[string]string {
	return map[string]string{
		"source_file":  chunk.SourceID,
		"chunk_index":  strconv.Itoa(chunk.Index),
		"total_chunks": strconv.Itoa(chunk.TotalChunks),
		"char_count":   strconv.Itoa(chunk.CharCount),
		"word_count":   strconv.Itoa(chunk.WordCount),
	}
}

// returns up to topK chunks nearest to the query embedding, most
// similar first. a non-empty filter keeps only chunks whose metadata
// contains every given key/value pair.
func (c *Client) Search(ctx context.Context, embedding []float32, topK int, filter map[string]string) ([]SearchResult, error) {
	if len(embedding) != c.dimension {
		return nil, fmt.Errorf("%w: query has %d, collection expects %d",
			ErrDimensionMismatch, len(embedding), c.dimension)
	}

	if topK <= 0 {
		return nil, nil
	}

	var rows pgx.Rows
	var err error

	if len(filter) > 0 {
		rows, err = c.pool.Query(ctx, fmt.Sprintf(searchFilteredQuery, c.collection),
			pgvector.NewVector(embedding), topK, filter)
	} else {
		rows, err = c.pool.Query(ctx, fmt.Sprintf(searchQuery, c.collection),
			pgvector.NewVector(embedding), topK)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to execute search query: %w", err)
	}
	defer rows.Close()

	var results []SearchResult

	for rows.Next() {
		var result SearchResult
		err := rows.Scan(
			&result.ID,
			&result.Content,
			&result.Source,
			&result.ChunkIndex,
			&result.TotalChunks,
			&result.Metadata,
			&result.Similarity,
		)

		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return results, nil
}

// returns the total number of stored chunks
func (c *Client) Count(ctx context.Context) (int, error) {
	var count int

	err := c.pool.QueryRow(ctx, fmt.Sprintf(getChunkCountQuery, c.collection)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get chunk count: %w", err)
	}

	return count, nil
}

// returns the distinct source files present in the collection
func (c *Client) Sources(ctx context.Context) ([]string, error) {
	rows, err := c.pool.Query(ctx, fmt.Sprintf(getSourcesQuery, c.collection))
	if err != nil {
		return nil, fmt.Errorf("failed to query sources: %w", err)
	}
	defer rows.Close()

	var sources []string

	for rows.Next() {
		var source string
		if err := rows.Scan(&source); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}

		sources = append(sources, source)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sources: %w", err)
	}

	return sources, nil
}

// returns collection metadata for status endpoints
func (c *Client) Info(ctx context.Context) (*CollectionInfo, error) {
	count, err := c.Count(ctx)
	if err != nil {
		return nil, err
	}

	sources, err := c.Sources(ctx)
	if err != nil {
		return nil, err
	}

	return &CollectionInfo{
		Name:       c.collection,
		ChunkCount: count,
		Dimension:  c.dimension,
		Sources:    sources,
	}, nil
}
