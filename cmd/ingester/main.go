package main

import (
	"context"
	"os"

	"golang.org/x/time/rate"

	"codeberg.org/taxdesk/server/internal/chunker"
	"codeberg.org/taxdesk/server/internal/config"
	"codeberg.org/taxdesk/server/internal/embedder"
	"codeberg.org/taxdesk/server/internal/extractor"
	"codeberg.org/taxdesk/server/internal/ingest"
	"codeberg.org/taxdesk/server/internal/llm"
	"codeberg.org/taxdesk/server/internal/logger"
	"codeberg.org/taxdesk/server/internal/storage"
)

func main() {
	flags := config.ParseIngestFlags()

	// load environment variables
	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err)
	}

	ctx := context.Background()

	llmClient, err := llm.NewLLM(ctx)
	if err != nil {
		logger.Fatal("failed to create LLM client", "error", err)
	}

	embedClient := embedder.New(llmClient, cfg.EmbedBatchSize, rate.Limit(1))

	store, err := storage.NewClient(ctx, cfg.DatabaseURL, cfg.Collection, embedClient.Dimension())
	if err != nil {
		logger.Fatal("failed to create storage client", "error", err)
	}

	defer store.Close()

	logger.Info("connected to database", "collection", store.Collection())

	if flags.Clear {
		if err := store.Reset(ctx); err != nil {
			logger.Fatal("failed to reset collection", "error", err)
		}

		logger.Info("collection reset", "collection", store.Collection())
	}

	paths, err := resolvePaths(flags.Path)
	if err != nil {
		logger.Fatal("failed to resolve input path", "path", flags.Path, "error", err)
	}

	if len(paths) == 0 {
		logger.Fatal("no supported documents found", "path", flags.Path)
	}

	logger.Info("starting ingestion", "files", len(paths))

	coordinator := ingest.NewCoordinator(
		extractor.New(),
		embedClient,
		store,
		chunker.Options{ChunkSize: cfg.ChunkSize, Overlap: cfg.ChunkOverlap},
		progressSink{},
	)

	result, err := coordinator.Process(ctx, paths)
	if err != nil {
		logger.Fatal("ingestion failed", "error", err)
	}

	for _, failure := range result.Failures {
		logger.Warn("file was not ingested", "file", failure.File, "error", failure.Error)
	}

	info, err := store.Info(ctx)
	if err != nil {
		logger.Fatal("failed to read collection info", "error", err)
	}

	logger.Info("ingestion finished",
		"run_id", result.RunID,
		"files_stored", result.FilesStored,
		"files_skipped", result.FilesSkipped,
		"files_failed", len(result.Failures),
		"chunks_stored", result.ChunksStored,
		"duration", result.Duration,
		"collection_chunks", info.ChunkCount,
		"collection_sources", len(info.Sources),
	)
}

// accepts either a single document file or a directory to walk
func resolvePaths(path string) ([]string, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if !stat.IsDir() {
		return []string{path}, nil
	}

	return ingest.ListDocuments(path)
}

// logs each pipeline stage as it happens
type progressSink struct{}

func (progressSink) Publish(progress ingest.Progress) {
	logger.Info("ingestion progress",
		"stage", progress.Stage,
		"file", progress.File,
		"files_done", progress.FilesDone,
		"files_total", progress.FilesTotal,
		"chunks_stored", progress.ChunksStored,
	)
}
