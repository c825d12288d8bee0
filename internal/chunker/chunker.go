package chunker

import (
	"fmt"
	"strings"

	"codeberg.org/taxdesk/server/internal/extractor"
	"codeberg.org/taxdesk/server/internal/logger"
)

// boundary preference order: paragraph breaks, then line breaks,
// then spaces, then raw character boundaries as a last resort
var separators = []string{"\n\n", "\n", " ", ""}

// splits a document's text into overlapping, size-bounded chunks.
// identical input and options always yield an identical sequence.
// empty or whitespace-only input yields an empty sequence.
func Split(doc *extractor.Document, opts Options) ([]Chunk, error) {
	if opts.ChunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", opts.ChunkSize)
	}

	if opts.Overlap < 0 || opts.Overlap >= opts.ChunkSize {
		return nil, fmt.Errorf("overlap %d must be in [0, chunk size %d)", opts.Overlap, opts.ChunkSize)
	}

	if strings.TrimSpace(doc.Text) == "" {
		return nil, nil
	}

	pieces := splitRecursive(doc.Text, separators, opts)

	chunks := make([]Chunk, 0, len(pieces))

	for i, text := range pieces {
		chunks = append(chunks, Chunk{
			ID:          fmt.Sprintf("%s_chunk_%d", doc.SourceID, i),
			Index:       i,
			Text:        text,
			CharCount:   len(text),
			WordCount:   len(strings.Fields(text)),
			SourceID:    doc.SourceID,
			TotalChunks: len(pieces),
			PageCount:   len(doc.Pages),
		})
	}

	logger.Info("split document into chunks",
		"source", doc.SourceID,
		"chunks", len(chunks),
		"chunk_size", opts.ChunkSize,
		"overlap", opts.Overlap,
	)

	return chunks, nil
}

// recursively splits text on the first separator present, merging
// the resulting pieces back together up to the chunk size with an
// overlap window carried between adjacent chunks. pieces that still
// exceed the chunk size descend to the next separator.
func splitRecursive(text string, seps []string, opts Options) []string {
	sep := seps[len(seps)-1]
	rest := []string{}

	for i, s := range seps {
		if s == "" {
			sep = ""
			break
		}

		if strings.Contains(text, s) {
			sep = s
			rest = seps[i+1:]

			break
		}
	}

	splits := splitOn(text, sep)

	var (
		final []string
		good  []string
	)

	for _, piece := range splits {
		if len(piece) < opts.ChunkSize {
			good = append(good, piece)
			continue
		}

		if len(good) > 0 {
			final = append(final, mergeSplits(good, sep, opts)...)
			good = nil
		}

		if len(rest) == 0 {
			// cannot split further; emit oversized piece as-is
			final = append(final, piece)
		} else {
			final = append(final, splitRecursive(piece, rest, opts)...)
		}
	}

	if len(good) > 0 {
		final = append(final, mergeSplits(good, sep, opts)...)
	}

	return final
}

// greedily joins splits into chunks no longer than the chunk size,
// retaining a trailing window of splits totalling at most Overlap
// characters as the start of the next chunk
func mergeSplits(splits []string, sep string, opts Options) []string {
	var (
		chunks  []string
		current []string
		total   int
	)

	sepLen := len(sep)

	for _, piece := range splits {
		pieceLen := len(piece)

		if len(current) > 0 && total+pieceLen+sepLen > opts.ChunkSize {
			if chunk := strings.TrimSpace(strings.Join(current, sep)); chunk != "" {
				chunks = append(chunks, chunk)
			}

			// shrink the window until it fits inside the overlap budget
			// and leaves room for the incoming piece
			for total > opts.Overlap || (total+pieceLen+sepLen > opts.ChunkSize && total > 0) {
				total -= len(current[0])
				if len(current) > 1 {
					total -= sepLen
				}

				current = current[1:]
			}
		}

		if len(current) > 0 {
			total += sepLen
		}

		current = append(current, piece)
		total += pieceLen
	}

	if chunk := strings.TrimSpace(strings.Join(current, sep)); chunk != "" {
		chunks = append(chunks, chunk)
	}

	return chunks
}

// splits text on sep, keeping non-empty pieces. an empty separator
// splits into individual characters for last-resort merging.
func splitOn(text, sep string) []string {
	if sep == "" {
		pieces := make([]string, 0, len(text))
		for _, r := range text {
			pieces = append(pieces, string(r))
		}

		return pieces
	}

	raw := strings.Split(text, sep)
	pieces := make([]string, 0, len(raw))

	for _, p := range raw {
		if p != "" {
			pieces = append(pieces, p)
		}
	}

	return pieces
}
