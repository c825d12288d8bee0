package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"codeberg.org/taxdesk/server/internal/llm"
	"codeberg.org/taxdesk/server/internal/retriever"
)

const defaultMaxHistoryPairs = 10

// Answerer produces a reply to a query given prior conversation turns.
type Answerer interface {
	Answer(ctx context.Context, query string, history []llm.Message) (*retriever.Answer, error)
}

// Session is one user's conversation: a bounded history of
// user/assistant pairs plus bookkeeping for expiry.
type Session struct {
	ID string

	mu           sync.Mutex
	history      []llm.Message
	maxPairs     int
	createdAt    time.Time
	lastActivity time.Time
	expiresAt    time.Time
	ttl          time.Duration
}

// SessionStats describes the current capped history, so the counts
// reflect what the next answer will actually see.
type SessionStats struct {
	ID                string    `json:"id"`
	TotalMessages     int       `json:"total_messages"`
	UserMessages      int       `json:"user_messages"`
	AssistantMessages int       `json:"assistant_messages"`
	ConversationTurns int       `json:"conversation_turns"`
	MaxPairs          int       `json:"max_pairs"`
	CreatedAt         time.Time `json:"created_at"`
	LastActivity      time.Time `json:"last_activity"`
}

// Send answers the query in the context of this session's history and
// records the exchange. The answerer runs outside the session lock so
// concurrent sends on other sessions are not serialized behind it.
func (s *Session) Send(ctx context.Context, answerer Answerer, query string) (*retriever.Answer, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyMessage
	}

	s.mu.Lock()
	history := make([]llm.Message, len(s.history))
	copy(history, s.history)
	s.mu.Unlock()

	answer, err := answerer.Answer(ctx, query, history)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history,
		llm.Message{Role: "user", Content: query},
		llm.Message{Role: "assistant", Content: answer.Text},
	)
	s.history = trimHistory(s.history, s.maxPairs)
	s.touch()

	return answer, nil
}

// Reset clears the conversation history but keeps the session alive.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = nil
	s.touch()
}

// History returns a copy of the current conversation history.
func (s *Session) History() []llm.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := make([]llm.Message, len(s.history))
	copy(history, s.history)

	return history
}

func (s *Session) Stats() SessionStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	userMessages := 0
	for _, message := range s.history {
		if message.Role == "user" {
			userMessages++
		}
	}

	return SessionStats{
		ID:                s.ID,
		TotalMessages:     len(s.history),
		UserMessages:      userMessages,
		AssistantMessages: len(s.history) - userMessages,
		ConversationTurns: userMessages,
		MaxPairs:          s.maxPairs,
		CreatedAt:         s.createdAt,
		LastActivity:      s.lastActivity,
	}
}

func (s *Session) expired(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return now.After(s.expiresAt)
}

// caller must hold s.mu
func (s *Session) touch() {
	now := time.Now()
	s.lastActivity = now
	s.expiresAt = now.Add(s.ttl)
}

// keeps at most maxPairs trailing user/assistant pairs, dropping the
// oldest turns first
func trimHistory(history []llm.Message, maxPairs int) []llm.Message {
	if maxPairs <= 0 {
		maxPairs = defaultMaxHistoryPairs
	}

	limit := maxPairs * 2
	if len(history) <= limit {
		return history
	}

	return history[len(history)-limit:]
}
