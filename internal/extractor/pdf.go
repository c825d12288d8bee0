package extractor

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"codeberg.org/taxdesk/server/internal/logger"
)

// layout-aware PDF extraction: walks each page row by row so that
// multi-column layouts come out in reading order
type layoutPDFBackend struct{}

func (b *layoutPDFBackend) Name() string { return "pdf-layout" }

func (b *layoutPDFBackend) Extract(path string) (doc *Document, err error) {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return nil, fmt.Errorf("not a pdf file: %s", path)
	}

	// the pdf library panics on malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("pdf parse panic: %v", r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close() //nolint:errcheck

	var (
		pageTexts []string
		pages     []Page
	)

	numPages := reader.NumPage()

	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			// per-page failures are non-fatal, remaining pages are still tried
			logger.Warn("failed to extract pdf page", "path", path, "page", i, "error", err)
			continue
		}

		var sb strings.Builder

		for _, row := range rows {
			for _, word := range row.Content {
				sb.WriteString(word.S)
			}

			sb.WriteByte('\n')
		}

		text := cleanText(sb.String())
		if text == "" {
			continue
		}

		pageTexts = append(pageTexts, text)
		pages = append(pages, Page{
			Number:    i,
			CharCount: len(text),
			WordCount: wordCount(text),
		})
	}

	return &Document{
		SourceID:    filepath.Base(path),
		Path:        path,
		Text:        strings.Join(pageTexts, "\n\n"),
		Pages:       pages,
		Backend:     b.Name(),
		ExtractedAt: time.Now(),
	}, nil
}
