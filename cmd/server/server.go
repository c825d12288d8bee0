package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"codeberg.org/taxdesk/server/internal/chat"
	"codeberg.org/taxdesk/server/internal/chunker"
	"codeberg.org/taxdesk/server/internal/config"
	"codeberg.org/taxdesk/server/internal/embedder"
	"codeberg.org/taxdesk/server/internal/extractor"
	"codeberg.org/taxdesk/server/internal/ingest"
	"codeberg.org/taxdesk/server/internal/llm"
	"codeberg.org/taxdesk/server/internal/retriever"
	"codeberg.org/taxdesk/server/internal/storage"
)

const (
	// idle sessions expire after this long
	sessionTTL = 2 * time.Hour

	// minimum interval between embedding batch calls
	embedderPace = rate.Limit(1)
)

// creates and configures a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	ctx := context.Background()

	llmClient, err := llm.NewLLM(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	embedClient := embedder.New(llmClient, cfg.EmbedBatchSize, embedderPace)

	store, err := storage.NewClient(ctx, cfg.DatabaseURL, cfg.Collection, embedClient.Dimension())
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	orchestrator := retriever.New(store, embedClient, llmClient, retriever.Config{
		TopK:          cfg.TopK,
		MinScore:      cfg.MinScore,
		ContextBudget: cfg.ContextBudget,
	})

	tracker := ingest.NewTracker()

	coordinator := ingest.NewCoordinator(
		extractor.New(),
		embedClient,
		store,
		chunker.Options{ChunkSize: cfg.ChunkSize, Overlap: cfg.ChunkOverlap},
		tracker,
	)

	if err := os.MkdirAll(cfg.InputDir, 0o750); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	server := &Server{
		config:       cfg,
		llm:          llmClient,
		embedder:     embedClient,
		store:        store,
		orchestrator: orchestrator,
		sessions:     chat.NewManager(sessionTTL, cfg.MaxHistoryPairs),
		coordinator:  coordinator,
		tracker:      tracker,
		router:       router,
	}

	RegisterRoutes(router, server)

	return server, nil
}
