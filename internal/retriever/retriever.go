package retriever

import (
	"context"
	"fmt"

	"codeberg.org/taxdesk/server/internal/llm"
	"codeberg.org/taxdesk/server/internal/logger"
	"codeberg.org/taxdesk/server/internal/storage"
)

func New(store Store, embedder QueryEmbedder, generator llm.TextGenerator, config Config) *Orchestrator {
	return &Orchestrator{
		store:     store,
		embedder:  embedder,
		generator: generator,
		config:    config.withDefaults(),
	}
}

// Answer retrieves context for the query and generates a reply that
// continues the given conversation history. Generation failures do
// not surface as errors; the reply degrades to a fixed apology so
// the conversation can continue.
func (o *Orchestrator) Answer(ctx context.Context, query string, history []llm.Message) (*Answer, error) {
	results, err := o.retrieve(ctx, query)
	if err != nil {
		return nil, err
	}

	contextText, used, sources := buildContext(results, o.config.ContextBudget)

	var userMessage string
	if len(contextText) >= o.config.MinContextChars {
		userMessage = buildGroundedMessage(query, contextText)
	} else {
		// too little material to ground an answer on
		logger.Info("insufficient context, answering from general knowledge",
			"query_chars", len(query),
			"context_chars", len(contextText),
		)

		contextText = ""
		used = 0
		sources = nil
		userMessage = buildKnowledgeOnlyMessage(query)
	}

	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: "user", Content: userMessage})

	response, err := o.generator.GenerateText(ctx, llm.TextGenerationRequest{
		SystemPrompt: systemPrompt,
		Messages:     messages,
	})

	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("generation cancelled: %w", ctx.Err())
		}

		logger.Error("text generation failed, returning fallback answer", "error", err)

		return &Answer{Text: fallbackAnswer}, nil
	}

	return &Answer{
		Text:         response.Text,
		UsedChunks:   used,
		ContextChars: len(contextText),
		Sources:      sources,
	}, nil
}

// Stats runs retrieval only and reports what the query would surface.
func (o *Orchestrator) Stats(ctx context.Context, query string) (*Stats, error) {
	embedding, err := o.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	all, err := o.store.Search(ctx, embedding, o.config.TopK, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to search store: %w", err)
	}

	stats := &Stats{
		Query:     query,
		Retrieved: len(all),
	}

	var sum float32
	seen := make(map[string]bool)

	for i, result := range all {
		if i == 0 {
			stats.TopScore = result.Similarity
		}

		sum += result.Similarity

		if !o.config.relevant(result.Similarity) {
			continue
		}

		stats.AboveThreshold++

		if !seen[result.Source] {
			seen[result.Source] = true
			stats.Sources = append(stats.Sources, result.Source)
		}
	}

	if len(all) > 0 {
		stats.MeanScore = sum / float32(len(all))
	}

	return stats, nil
}

// embeds the query, searches the store and drops candidates below
// the relevance threshold
func (o *Orchestrator) retrieve(ctx context.Context, query string) ([]storage.SearchResult, error) {
	embedding, err := o.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	all, err := o.store.Search(ctx, embedding, o.config.TopK, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to search store: %w", err)
	}

	results := all[:0:0]
	for _, result := range all {
		if o.config.relevant(result.Similarity) {
			results = append(results, result)
		}
	}

	logger.Debug("retrieved chunks",
		"candidates", len(all),
		"above_threshold", len(results),
	)

	return results, nil
}
