package config

type Config struct {
	OpenAIKey    string
	AnthropicKey string
	DatabaseURL  string
	Environment  string

	// vector collection
	Collection string

	// ingestion tunables
	InputDir       string
	ChunkSize      int
	ChunkOverlap   int
	EmbedBatchSize int

	// retrieval tunables
	TopK          int
	MinScore      float32
	ContextBudget int

	// conversation
	MaxHistoryPairs int
}

type Flags struct {
	Path  string
	Clear bool
}
