package embedder

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"codeberg.org/taxdesk/server/internal/chunker"
	"codeberg.org/taxdesk/server/internal/llm"
	"codeberg.org/taxdesk/server/internal/logger"
)

const defaultBatchSize = 50

// wraps an llm.Embedder with fixed-size batching, inter-batch pacing
// and a degraded failure mode: a failed batch yields empty vectors
// for its items instead of aborting the whole call
type Client struct {
	embedder  llm.Embedder
	batchSize int
	limiter   *rate.Limiter
}

// returns a batching client. pace is the minimum interval between
// batch calls, respecting the embedding service's rate limits.
func New(embedder llm.Embedder, batchSize int, pace rate.Limit) *Client {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	if pace <= 0 {
		pace = rate.Limit(1) // one batch per second
	}

	return &Client{
		embedder:  embedder,
		batchSize: batchSize,
		limiter:   rate.NewLimiter(pace, 1),
	}
}

// returns the embedder's fixed vector dimension
func (c *Client) Dimension() int {
	return c.embedder.Dimension()
}

// generates an embedding for a single query text
func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return c.embedder.GenerateEmbedding(ctx, text)
}

// generates embeddings for texts in fixed-size batches. the result
// always has one entry per input text; entries for failed batches are
// empty slices. returns an error only when the context is cancelled.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors := make([][]float32, 0, len(texts))
	totalBatches := (len(texts) + c.batchSize - 1) / c.batchSize

	for start := 0; start < len(texts); start += c.batchSize {
		end := start + c.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		batch := texts[start:end]
		batchNum := start/c.batchSize + 1

		// pacing delay between batches to respect external rate limits
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("pacing wait: %w", err)
		}

		embeddings, err := c.embedder.GenerateEmbeddings(ctx, batch)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("embedding cancelled: %w", ctx.Err())
			}

			// degraded mode: keep positions, lose this batch's coverage
			logger.Error("embedding batch failed, substituting empty vectors",
				"batch", batchNum,
				"total_batches", totalBatches,
				"items", len(batch),
				"error", err,
			)

			for range batch {
				vectors = append(vectors, []float32{})
			}

			continue
		}

		// a provider returning the wrong count or ragged dimensions is
		// treated the same as a failed batch
		if len(embeddings) != len(batch) || !Validate(embeddings) {
			logger.Error("embedding batch result is malformed, substituting empty vectors",
				"batch", batchNum,
				"expected", len(batch),
				"got", len(embeddings),
			)

			for range batch {
				vectors = append(vectors, []float32{})
			}

			continue
		}

		vectors = append(vectors, embeddings...)

		logger.Debug("embedded batch",
			"batch", batchNum,
			"total_batches", totalBatches,
			"items", len(batch),
		)
	}

	return vectors, nil
}

// generates embeddings for the chunk texts, preserving order
func (c *Client) EmbedChunks(ctx context.Context, chunks []chunker.Chunk) ([][]float32, error) {
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	return c.Embed(ctx, texts)
}
