package chunker

// a bounded, overlapping segment of a document's text, the atomic
// unit of indexing and retrieval
type Chunk struct {
	ID          string // deterministic: <source_id>_chunk_<index>
	Index       int
	Text        string
	CharCount   int
	WordCount   int
	SourceID    string
	TotalChunks int
	PageCount   int
}

type Options struct {
	ChunkSize int // soft upper bound on chunk characters
	Overlap   int // characters shared between adjacent chunks, must be < ChunkSize
}

func DefaultOptions() Options {
	return Options{
		ChunkSize: 300,
		Overlap:   50,
	}
}
