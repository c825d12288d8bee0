package main

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/taxdesk/server/internal/chat"
	"codeberg.org/taxdesk/server/internal/config"
	"codeberg.org/taxdesk/server/internal/embedder"
	"codeberg.org/taxdesk/server/internal/ingest"
	"codeberg.org/taxdesk/server/internal/llm"
	"codeberg.org/taxdesk/server/internal/retriever"
	"codeberg.org/taxdesk/server/internal/storage"
)

// holds all dependencies and state for the API server
type Server struct {
	config       *config.Config
	llm          llm.LLM
	embedder     *embedder.Client
	store        *storage.Client
	orchestrator *retriever.Orchestrator
	sessions     *chat.Manager
	coordinator  *ingest.Coordinator
	tracker      *ingest.Tracker
	router       *gin.Engine
}
