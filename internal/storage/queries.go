package storage

// collection tables are created per configured collection name, so
// the queries carry the table name as a fmt verb. names are validated
// by validCollectionName before they reach any of these.
const (
	createExtensionQuery = "CREATE EXTENSION IF NOT EXISTS vector"

	createCollectionQuery = `
		CREATE TABLE IF NOT EXISTS %s (
			id           text PRIMARY KEY,
			content      text NOT NULL,
			embedding    vector(%d),
			source       text NOT NULL,
			chunk_index  integer NOT NULL,
			total_chunks integer NOT NULL,
			metadata     jsonb NOT NULL DEFAULT '{}'::jsonb
		)
	`

	createIndexQuery = `
		CREATE INDEX IF NOT EXISTS %s_embedding_idx
		ON %s USING hnsw (embedding vector_cosine_ops)
	`

	dropCollectionQuery = "DROP TABLE IF EXISTS %s"

	upsertChunkQuery = `
		INSERT INTO %s (id, content, embedding, source, chunk_index, total_chunks, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			content      = EXCLUDED.content,
			embedding    = EXCLUDED.embedding,
			source       = EXCLUDED.source,
			chunk_index  = EXCLUDED.chunk_index,
			total_chunks = EXCLUDED.total_chunks,
			metadata     = EXCLUDED.metadata
	`

	searchQuery = `
		SELECT
			id,
			content,
			source,
			chunk_index,
			total_chunks,
			metadata,
			1 - (embedding <=> $1) AS similarity
		FROM %s
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> $1
		LIMIT $2
	`

	searchFilteredQuery = `
		SELECT
			id,
			content,
			source,
			chunk_index,
			total_chunks,
			metadata,
			1 - (embedding <=> $1) AS similarity
		FROM %s
		WHERE embedding IS NOT NULL AND metadata @> $3::jsonb
		ORDER BY embedding <=> $1
		LIMIT $2
	`

	getChunkCountQuery = "SELECT COUNT(*) FROM %s"

	getSourcesQuery = "SELECT DISTINCT source FROM %s ORDER BY source"
)
