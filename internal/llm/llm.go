package llm

import (
	"context"
	"fmt"
)

// combines an Embedder and a TextGenerator into a single LLM
type CompositeLLM struct {
	Embedder
	TextGenerator
}

// creates a new LLM with auto-configuration from environment variables
func NewLLM(ctx context.Context) (LLM, error) {
	config, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load LLM config: %w", err)
	}

	return NewLLMWithConfig(ctx, config)
}

// creates a new LLM with explicit configuration
func NewLLMWithConfig(_ context.Context, config *Config) (LLM, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	embedder := NewOpenAIEmbedder(OpenAIConfig{
		APIKey: config.EmbedderAPIKey,
		Model:  config.EmbedderModel,
	})

	generator := NewAnthropicGenerator(AnthropicConfig{
		APIKey:      config.GeneratorAPIKey,
		Model:       config.GeneratorModel,
		MaxTokens:   config.GeneratorMaxTokens,
		Temperature: config.GeneratorTemperature,
	})

	return &CompositeLLM{
		Embedder:      embedder,
		TextGenerator: generator,
	}, nil
}
