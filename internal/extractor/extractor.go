package extractor

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"codeberg.org/taxdesk/server/internal/logger"
)

var ErrAllBackendsFailed = errors.New("all extraction backends failed")

// tries an ordered list of backends until one yields usable text
type Extractor struct {
	backends []Backend
}

// returns an extractor with the default backend order:
// layout-aware PDF extraction first, a simpler whole-document
// fallback second, raw file read for plain text last
func New() *Extractor {
	return &Extractor{
		backends: []Backend{
			&layoutPDFBackend{},
			&catBackend{},
			&plainTextBackend{},
		},
	}
}

// returns an extractor with an explicit backend order
func NewWithBackends(backends ...Backend) *Extractor {
	return &Extractor{backends: backends}
}

// extracts cleaned text and page stats from the file at path.
// each backend failure is non-fatal; the error wraps
// ErrAllBackendsFailed only when every backend has failed.
func (e *Extractor) Extract(path string) (*Document, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	for _, backend := range e.backends {
		doc, err := backend.Extract(path)
		if err != nil {
			logger.Warn("extraction backend failed",
				"backend", backend.Name(),
				"path", path,
				"error", err,
			)

			continue
		}

		if doc == nil || strings.TrimSpace(doc.Text) == "" {
			logger.Warn("extraction backend produced no text",
				"backend", backend.Name(),
				"path", path,
			)

			continue
		}

		logger.Info("extracted document",
			"backend", backend.Name(),
			"path", path,
			"pages", len(doc.Pages),
			"chars", len(doc.Text),
		)

		return doc, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrAllBackendsFailed, path)
}
