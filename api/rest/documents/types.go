package documents

import (
	"context"

	"codeberg.org/taxdesk/server/internal/ingest"
	"codeberg.org/taxdesk/server/internal/storage"
)

// Store is the read-only collection surface the handlers need.
type Store interface {
	Sources(ctx context.Context) ([]string, error)
	Info(ctx context.Context) (*storage.CollectionInfo, error)
}

// IngestRunner runs an ingestion over saved files.
type IngestRunner interface {
	Process(ctx context.Context, paths []string) (*ingest.Result, error)
}

type UploadResponse struct {
	Message string   `json:"message"`
	Files   []string `json:"files"`
}

type SourcesResponse struct {
	Sources []string `json:"sources"`
}

type StatusResponse struct {
	Status   string           `json:"status"`
	Progress *ingest.Progress `json:"progress,omitempty"`
}
