package llm

import (
	"fmt"
	"os"
	"strconv"
)

// holds configuration for LLM initialization
type Config struct {
	// embedder configuration
	EmbedderAPIKey string
	EmbedderModel  string // e.g., "text-embedding-3-small"

	// generator configuration
	GeneratorAPIKey      string
	GeneratorModel       string // e.g., "claude-3-5-haiku-latest"
	GeneratorMaxTokens   int
	GeneratorTemperature float32
}

// loadConfig loads LLM configuration from environment variables
func loadConfig() (*Config, error) {
	embedderAPIKey := os.Getenv("OPENAI_API_KEY")
	if embedderAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required")
	}

	generatorAPIKey := os.Getenv("ANTHROPIC_API_KEY")
	if generatorAPIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is required")
	}

	embedderModel := os.Getenv("EMBEDDER_MODEL")
	if embedderModel == "" {
		embedderModel = defaultOpenAIModel
	}

	generatorModel := os.Getenv("GENERATOR_MODEL")
	if generatorModel == "" {
		generatorModel = defaultAnthropicModel
	}

	generatorMaxTokens := defaultGeneratorMaxTokens
	if str := os.Getenv("GENERATOR_MAX_TOKENS"); str != "" {
		if val, err := strconv.Atoi(str); err == nil {
			generatorMaxTokens = val
		}
	}

	generatorTemperature := float32(defaultGeneratorTemperature)
	if str := os.Getenv("GENERATOR_TEMPERATURE"); str != "" {
		if val, err := strconv.ParseFloat(str, 32); err == nil {
			generatorTemperature = float32(val)
		}
	}

	return &Config{
		EmbedderAPIKey:       embedderAPIKey,
		EmbedderModel:        embedderModel,
		GeneratorAPIKey:      generatorAPIKey,
		GeneratorModel:       generatorModel,
		GeneratorMaxTokens:   generatorMaxTokens,
		GeneratorTemperature: generatorTemperature,
	}, nil
}
