package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	defaultCollection      = "tax_documents"
	defaultInputDir        = "./input"
	defaultChunkSize       = 300
	defaultChunkOverlap    = 50
	defaultEmbedBatchSize  = 50
	defaultTopK            = 20
	defaultMinScore        = 0.3
	defaultContextBudget   = 15000
	defaultMaxHistoryPairs = 10
)

// loads configuration from environment variables
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - production environments may not have .env file
	}

	openaiKey := os.Getenv("OPENAI_API_KEY")
	anthropicKey := os.Getenv("ANTHROPIC_API_KEY")
	databaseURL := os.Getenv("DATABASE_URL")
	environment := os.Getenv("ENVIRONMENT")

	if openaiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required")
	}

	if anthropicKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is required")
	}

	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if environment == "" {
		environment = "development"
	}

	cfg := &Config{
		OpenAIKey:       openaiKey,
		AnthropicKey:    anthropicKey,
		DatabaseURL:     databaseURL,
		Environment:     environment,
		Collection:      stringFromEnv("VECTOR_COLLECTION", defaultCollection),
		InputDir:        stringFromEnv("INPUT_DIR", defaultInputDir),
		ChunkSize:       intFromEnv("CHUNK_SIZE", defaultChunkSize),
		ChunkOverlap:    intFromEnv("CHUNK_OVERLAP", defaultChunkOverlap),
		EmbedBatchSize:  intFromEnv("EMBED_BATCH_SIZE", defaultEmbedBatchSize),
		TopK:            intFromEnv("RETRIEVAL_TOP_K", defaultTopK),
		MinScore:        floatFromEnv("RELEVANCE_THRESHOLD", defaultMinScore),
		ContextBudget:   intFromEnv("CONTEXT_BUDGET", defaultContextBudget),
		MaxHistoryPairs: intFromEnv("MAX_HISTORY_PAIRS", defaultMaxHistoryPairs),
	}

	if cfg.ChunkOverlap >= cfg.ChunkSize {
		return nil, fmt.Errorf("CHUNK_OVERLAP (%d) must be smaller than CHUNK_SIZE (%d)", cfg.ChunkOverlap, cfg.ChunkSize)
	}

	return cfg, nil
}

func stringFromEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}

func intFromEnv(key string, fallback int) int {
	if str := os.Getenv(key); str != "" {
		if val, err := strconv.Atoi(str); err == nil {
			return val
		}
	}

	return fallback
}

func floatFromEnv(key string, fallback float32) float32 {
	if str := os.Getenv(key); str != "" {
		if val, err := strconv.ParseFloat(str, 32); err == nil {
			return float32(val)
		}
	}

	return fallback
}
