package extractor

import "time"

// per-page stats recorded during extraction
type Page struct {
	Number    int
	CharCount int
	WordCount int
}

// holds the cleaned text of one source file plus provenance
type Document struct {
	SourceID    string // base filename, used to derive chunk IDs
	Path        string
	Text        string
	Pages       []Page
	Backend     string // which backend produced the text
	ExtractedAt time.Time
}

// a single extraction strategy; backends are tried in priority order
type Backend interface {
	Name() string
	Extract(path string) (*Document, error)
}
