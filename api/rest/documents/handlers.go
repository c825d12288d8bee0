package documents

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"codeberg.org/taxdesk/server/internal/errors"
	"codeberg.org/taxdesk/server/internal/ingest"
	"codeberg.org/taxdesk/server/internal/logger"
)

const ingestTimeout = 30 * time.Minute

var allowedExtensions = map[string]bool{
	".pdf": true,
	".txt": true,
	".md":  true,
}

// creates a handler that accepts document uploads and ingests them in
// the background. progress is observable via the status endpoint.
func UploadHandler(uploadDir string, runner IngestRunner) gin.HandlerFunc {
	return func(c *gin.Context) {
		form, err := c.MultipartForm()
		if err != nil {
			errors.BadRequest(c, "invalid multipart form", err)
			return
		}

		files := form.File["files"]
		if len(files) == 0 {
			errors.BadRequest(c, "no files provided", nil)
			return
		}

		var saved []string

		for _, file := range files {
			name := filepath.Base(file.Filename)
			if !allowedExtensions[strings.ToLower(filepath.Ext(name))] {
				errors.BadRequest(c, "unsupported file type: "+name, nil)
				return
			}

			path := filepath.Join(uploadDir, name)
			if err := c.SaveUploadedFile(file, path); err != nil {
				errors.InternalError(c, "failed to save uploaded file", err)
				return
			}

			saved = append(saved, path)
		}

		// the upload request returns immediately; ingestion runs in
		// the background with its own deadline
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
			defer cancel()

			if _, err := runner.Process(ctx, saved); err != nil {
				logger.ErrorErr(err, "background ingestion failed", "files", len(saved))
			}
		}()

		names := make([]string, len(files))
		for i, file := range files {
			names[i] = filepath.Base(file.Filename)
		}

		c.JSON(http.StatusAccepted, UploadResponse{
			Message: "ingestion started",
			Files:   names,
		})
	}
}

// creates a handler reporting the latest ingestion progress
func StatusHandler(tracker *ingest.Tracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		progress, ok := tracker.Current()
		if !ok {
			c.JSON(http.StatusOK, StatusResponse{Status: "idle"})
			return
		}

		c.JSON(http.StatusOK, StatusResponse{
			Status:   progress.Status,
			Progress: &progress,
		})
	}
}

// creates a handler listing the distinct document sources in the store
func SourcesHandler(store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sources, err := store.Sources(c.Request.Context())
		if err != nil {
			errors.InternalError(c, "failed to list sources", err)
			return
		}

		if sources == nil {
			sources = []string{}
		}

		c.JSON(http.StatusOK, SourcesResponse{Sources: sources})
	}
}

// creates a handler returning collection metadata
func InfoHandler(store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		info, err := store.Info(c.Request.Context())
		if err != nil {
			errors.InternalError(c, "failed to get collection info", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"collection":  info.Name,
			"chunk_count": info.ChunkCount,
			"dimension":   info.Dimension,
			"sources":     info.Sources,
		})
	}
}
