package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"codeberg.org/taxdesk/server/internal/chat"
	"codeberg.org/taxdesk/server/internal/config"
	"codeberg.org/taxdesk/server/internal/embedder"
	"codeberg.org/taxdesk/server/internal/llm"
	"codeberg.org/taxdesk/server/internal/logger"
	"codeberg.org/taxdesk/server/internal/retriever"
	"codeberg.org/taxdesk/server/internal/storage"
)

const answerTimeout = 2 * time.Minute

func main() {
	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err)
	}

	ctx := context.Background()

	llmClient, err := llm.NewLLM(ctx)
	if err != nil {
		logger.Fatal("failed to create LLM client", "error", err)
	}

	embedClient := embedder.New(llmClient, cfg.EmbedBatchSize, rate.Limit(1))

	store, err := storage.NewClient(ctx, cfg.DatabaseURL, cfg.Collection, embedClient.Dimension())
	if err != nil {
		logger.Fatal("failed to create storage client", "error", err)
	}

	defer store.Close()

	orchestrator := retriever.New(store, embedClient, llmClient, retriever.Config{
		TopK:          cfg.TopK,
		MinScore:      cfg.MinScore,
		ContextBudget: cfg.ContextBudget,
	})

	manager := chat.NewManager(24*time.Hour, cfg.MaxHistoryPairs)

	session, err := manager.CreateSession()
	if err != nil {
		logger.Fatal("failed to create session", "error", err)
	}

	info, err := store.Info(ctx)
	if err != nil {
		logger.Fatal("failed to read collection info", "error", err)
	}

	fmt.Printf("Tax document assistant. %d chunks from %d documents loaded.\n", info.ChunkCount, len(info.Sources))
	fmt.Println("Commands: /reset, /stats, /sources, /quit")

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("\n> ")

		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if runCommand(ctx, line, session, store) {
				return
			}

			continue
		}

		answerCtx, cancel := context.WithTimeout(ctx, answerTimeout)
		answer, err := session.Send(answerCtx, orchestrator, line)
		cancel()

		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}

		fmt.Printf("\n%s\n", answer.Text)

		if answer.UsedChunks > 0 {
			fmt.Printf("\n(%d chunks from %s)\n", answer.UsedChunks, strings.Join(answer.Sources, ", "))
		}
	}

	if err := scanner.Err(); err != nil {
		logger.Fatal("failed to read input", "error", err)
	}
}

// handles a slash command, returning true when the loop should exit
func runCommand(ctx context.Context, line string, session *chat.Session, store *storage.Client) bool {
	switch line {
	case "/quit", "/exit":
		fmt.Println("bye")
		return true

	case "/reset":
		session.Reset()
		fmt.Println("conversation history cleared")

	case "/stats":
		stats := session.Stats()
		fmt.Printf("session %s: %d messages (%d user, %d assistant), %d turns (cap %d pairs)\n",
			stats.ID, stats.TotalMessages, stats.UserMessages, stats.AssistantMessages,
			stats.ConversationTurns, stats.MaxPairs)

	case "/sources":
		sources, err := store.Sources(ctx)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			return false
		}

		if len(sources) == 0 {
			fmt.Println("no documents ingested yet")
			return false
		}

		for _, source := range sources {
			fmt.Printf("  %s\n", source)
		}

	default:
		fmt.Printf("unknown command: %s\n", line)
	}

	return false
}
