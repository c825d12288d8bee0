package retriever

import (
	"context"

	"codeberg.org/taxdesk/server/internal/llm"
	"codeberg.org/taxdesk/server/internal/storage"
)

// Store is the chunk search surface the orchestrator needs.
type Store interface {
	Search(ctx context.Context, embedding []float32, topK int, filter map[string]string) ([]storage.SearchResult, error)
}

// QueryEmbedder turns a query string into an embedding vector.
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Orchestrator runs the retrieve-then-answer loop: embed the query,
// search the store, assemble a bounded context and ask the generator.
type Orchestrator struct {
	store     Store
	embedder  QueryEmbedder
	generator llm.TextGenerator
	config    Config
}

// Answer is a generated reply plus how much retrieved material backed it.
type Answer struct {
	Text         string   `json:"text"`
	UsedChunks   int      `json:"used_chunks"`
	ContextChars int      `json:"context_chars"`
	Sources      []string `json:"sources,omitempty"`
}

// Stats describes what retrieval alone would surface for a query.
type Stats struct {
	Query          string   `json:"query"`
	Retrieved      int      `json:"retrieved"`
	AboveThreshold int      `json:"above_threshold"`
	TopScore       float32  `json:"top_score"`
	MeanScore      float32  `json:"mean_score"`
	Sources        []string `json:"sources,omitempty"`
}
