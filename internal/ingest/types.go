package ingest

import (
	"context"
	"time"

	"codeberg.org/taxdesk/server/internal/chunker"
	"codeberg.org/taxdesk/server/internal/extractor"
)

type Stage string

const (
	StageExtracting    Stage = "extracting"
	StageChunking      Stage = "chunking"
	StageEmbedding     Stage = "embedding"
	StageStoring       Stage = "storing"
	StageFileCompleted Stage = "file_completed"
	StageCompleted     Stage = "completed"
	StageFailed        Stage = "failed"
)

// run-level status, coarser than the per-file stage
const (
	StatusStarting   = "starting"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusError      = "error"
)

// Progress is one observable step of an ingestion run.
type Progress struct {
	RunID        string    `json:"run_id"`
	Status       string    `json:"status"`
	Stage        Stage     `json:"stage"`
	File         string    `json:"file,omitempty"`
	Message      string    `json:"message"`
	Percentage   int       `json:"percentage"`
	FilesDone    int       `json:"files_done"`
	FilesTotal   int       `json:"files_total"`
	ChunksStored int       `json:"chunks_stored"`
	Error        string    `json:"error,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Sink receives progress updates as a run advances.
type Sink interface {
	Publish(progress Progress)
}

// FileFailure records why one file could not be ingested.
type FileFailure struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// Result summarizes a completed ingestion run.
type Result struct {
	RunID        string        `json:"run_id"`
	FilesStored  int           `json:"files_stored"`
	FilesSkipped int           `json:"files_skipped"`
	ChunksStored int           `json:"chunks_stored"`
	Failures     []FileFailure `json:"failures,omitempty"`
	Duration     time.Duration `json:"duration"`
}

// DocumentExtractor turns a file path into a cleaned document.
type DocumentExtractor interface {
	Extract(path string) (*extractor.Document, error)
}

// ChunkEmbedder embeds chunk texts in batches.
type ChunkEmbedder interface {
	EmbedChunks(ctx context.Context, chunks []chunker.Chunk) ([][]float32, error)
}

// ChunkStore persists chunks with their embeddings.
type ChunkStore interface {
	Add(ctx context.Context, chunks []chunker.Chunk, embeddings [][]float32) (int, error)
}
