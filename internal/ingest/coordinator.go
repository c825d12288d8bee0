package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"codeberg.org/taxdesk/server/internal/chunker"
	"codeberg.org/taxdesk/server/internal/embedder"
	"codeberg.org/taxdesk/server/internal/logger"
)

// Coordinator drives the per-file pipeline: extract, chunk, embed,
// store. A failing file is recorded and skipped; the run fails only
// when no file makes it into the store.
type Coordinator struct {
	extractor DocumentExtractor
	embedder  ChunkEmbedder
	store     ChunkStore
	options   chunker.Options
	sink      Sink
}

func NewCoordinator(ex DocumentExtractor, em ChunkEmbedder, store ChunkStore, options chunker.Options, sink Sink) *Coordinator {
	if sink == nil {
		sink = discardSink{}
	}

	return &Coordinator{
		extractor: ex,
		embedder:  em,
		store:     store,
		options:   options,
		sink:      sink,
	}
}

type discardSink struct{}

func (discardSink) Publish(Progress) {}

// Process ingests the given files in order, publishing progress to
// the sink. It returns an error when the context is cancelled or no
// file could be stored.
func (c *Coordinator) Process(ctx context.Context, paths []string) (*Result, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files to ingest")
	}

	started := time.Now()
	result := &Result{RunID: uuid.NewString()}

	for _, path := range paths {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("ingestion cancelled: %w", ctx.Err())
		}

		stored, err := c.processFile(ctx, result, path, len(paths))
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("ingestion cancelled: %w", ctx.Err())
			}

			logger.Error("file ingestion failed", "file", path, "error", err)
			result.Failures = append(result.Failures, FileFailure{File: path, Error: err.Error()})
			continue
		}

		if stored == 0 {
			result.FilesSkipped++
			continue
		}

		result.FilesStored++
		result.ChunksStored += stored

		c.publish(result, StageFileCompleted, path, len(paths))
	}

	result.Duration = time.Since(started)

	if result.FilesStored == 0 {
		c.publish(result, StageFailed, "", len(paths))
		return result, fmt.Errorf("no files were ingested: %d failed, %d skipped", len(result.Failures), result.FilesSkipped)
	}

	c.publish(result, StageCompleted, "", len(paths))

	logger.Info("ingestion run completed",
		"run_id", result.RunID,
		"files_stored", result.FilesStored,
		"files_failed", len(result.Failures),
		"chunks_stored", result.ChunksStored,
		"duration", result.Duration,
	)

	return result, nil
}

func (c *Coordinator) processFile(ctx context.Context, result *Result, path string, total int) (int, error) {
	c.publish(result, StageExtracting, path, total)

	document, err := c.extractor.Extract(path)
	if err != nil {
		return 0, fmt.Errorf("extract: %w", err)
	}

	c.publish(result, StageChunking, path, total)

	chunks, err := chunker.Split(document, c.options)
	if err != nil {
		return 0, fmt.Errorf("chunk: %w", err)
	}

	if len(chunks) == 0 {
		logger.Warn("document produced no chunks", "file", path)
		return 0, nil
	}

	stats := chunker.ComputeStats(chunks)
	logger.Debug("document chunked",
		"file", path,
		"chunks", stats.TotalChunks,
		"avg_chars", stats.AvgChars,
		"max_chars", stats.MaxChars,
	)

	c.publish(result, StageEmbedding, path, total)

	embeddings, err := c.embedder.EmbedChunks(ctx, chunks)
	if err != nil {
		return 0, fmt.Errorf("embed: %w", err)
	}

	if covered := embedder.Coverage(embeddings); covered < len(chunks) {
		logger.Warn("partial embedding coverage",
			"file", path,
			"embedded", covered,
			"chunks", len(chunks),
		)
	}

	c.publish(result, StageStoring, path, total)

	stored, err := c.store.Add(ctx, chunks, embeddings)
	if err != nil {
		return 0, fmt.Errorf("store: %w", err)
	}

	return stored, nil
}

func (c *Coordinator) publish(result *Result, stage Stage, file string, total int) {
	done := result.FilesStored + result.FilesSkipped + len(result.Failures)

	status := StatusProcessing
	percentage := 0
	if total > 0 {
		percentage = done * 100 / total
	}

	var message, errMsg string

	switch stage {
	case StageCompleted:
		status = StatusCompleted
		percentage = 100
		message = fmt.Sprintf("ingested %d of %d files, %d chunks stored", result.FilesStored, total, result.ChunksStored)
	case StageFailed:
		status = StatusError
		percentage = 100
		message = fmt.Sprintf("no files were ingested: %d failed, %d skipped", len(result.Failures), result.FilesSkipped)
		errMsg = message
	case StageFileCompleted:
		message = fmt.Sprintf("finished %s (%d of %d)", file, done, total)
	default:
		if done == 0 && result.ChunksStored == 0 && stage == StageExtracting {
			status = StatusStarting
		}

		message = fmt.Sprintf("%s %s (file %d of %d)", stage, file, done+1, total)
	}

	c.sink.Publish(Progress{
		RunID:        result.RunID,
		Status:       status,
		Stage:        stage,
		File:         file,
		Message:      message,
		Percentage:   percentage,
		FilesDone:    done,
		FilesTotal:   total,
		ChunksStored: result.ChunksStored,
		Error:        errMsg,
		UpdatedAt:    time.Now(),
	})
}
