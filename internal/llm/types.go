package llm

import "context"

// combines embedding generation and text generation
type LLM interface {
	Embedder
	TextGenerator
}

// generates embeddings from text
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

// generates chat completions
type TextGenerator interface {
	GenerateText(ctx context.Context, req TextGenerationRequest) (*TextGenerationResponse, error)
}

// a single conversation turn
type Message struct {
	Role    string `json:"role"`    // "user" or "assistant"
	Content string `json:"content"` // message content
}

type TextGenerationRequest struct {
	SystemPrompt string
	Messages     []Message
	MaxTokens    int // optional, falls back to client config
}

type Usage struct {
	InputTokens  int
	OutputTokens int
}

type TextGenerationResponse struct {
	Text  string
	Usage Usage
}
