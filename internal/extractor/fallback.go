package extractor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/lu4p/cat"
)

// whole-document fallback over lu4p/cat, which handles pdf, docx,
// odt and txt. no per-page layout, so the result is one pseudo-page.
type catBackend struct{}

func (b *catBackend) Name() string { return "cat-fallback" }

func (b *catBackend) Extract(path string) (*Document, error) {
	raw, err := cat.File(path)
	if err != nil {
		return nil, fmt.Errorf("cat %s: %w", path, err)
	}

	text := cleanText(raw)

	return &Document{
		SourceID: filepath.Base(path),
		Path:     path,
		Text:     text,
		Pages: []Page{{
			Number:    1,
			CharCount: len(text),
			WordCount: wordCount(text),
		}},
		Backend:     b.Name(),
		ExtractedAt: time.Now(),
	}, nil
}

// raw file read for plain-text sources (.txt, .md)
type plainTextBackend struct{}

func (b *plainTextBackend) Name() string { return "plain-text" }

func (b *plainTextBackend) Extract(path string) (*Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".txt" && ext != ".md" {
		return nil, fmt.Errorf("not a plain text file: %s", path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("%s is not valid utf-8", path)
	}

	text := cleanText(string(raw))

	return &Document{
		SourceID: filepath.Base(path),
		Path:     path,
		Text:     text,
		Pages: []Page{{
			Number:    1,
			CharCount: len(text),
			WordCount: wordCount(text),
		}},
		Backend:     b.Name(),
		ExtractedAt: time.Now(),
	}, nil
}
