package chat

import (
	"codeberg.org/taxdesk/server/internal/chat"
	"codeberg.org/taxdesk/server/internal/llm"
)

type SendMessageRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message" binding:"required"`
}

type SendMessageResponse struct {
	SessionID    string   `json:"session_id"`
	Answer       string   `json:"answer"`
	UsedChunks   int      `json:"used_chunks"`
	ContextChars int      `json:"context_chars"`
	Sources      []string `json:"sources,omitempty"`
}

type ResetRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

type HistoryResponse struct {
	SessionID string        `json:"session_id"`
	Messages  []llm.Message `json:"messages"`
}

type StatsResponse struct {
	Session        chat.SessionStats `json:"session"`
	ActiveSessions int               `json:"active_sessions"`
}
