package chat

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"codeberg.org/taxdesk/server/internal/llm"
	"codeberg.org/taxdesk/server/internal/retriever"
)

type fakeAnswerer struct {
	err         error
	lastHistory []llm.Message
	calls       int
}

func (f *fakeAnswerer) Answer(ctx context.Context, query string, history []llm.Message) (*retriever.Answer, error) {
	f.calls++
	f.lastHistory = history

	if f.err != nil {
		return nil, f.err
	}

	return &retriever.Answer{Text: "answer to: " + query}, nil
}

func newTestSession(t *testing.T, maxPairs int) *Session {
	t.Helper()

	manager := NewManager(time.Hour, maxPairs)

	session, err := manager.CreateSession()
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	return session
}

func TestSendRecordsExchange(t *testing.T) {
	session := newTestSession(t, 10)
	answerer := &fakeAnswerer{}

	answer, err := session.Send(context.Background(), answerer, "what is the standard deduction?")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if answer.Text != "answer to: what is the standard deduction?" {
		t.Errorf("unexpected answer %q", answer.Text)
	}

	history := session.History()
	if len(history) != 2 {
		t.Fatalf("expected 2 history messages, got %d", len(history))
	}

	if history[0].Role != "user" || history[1].Role != "assistant" {
		t.Errorf("unexpected roles %q, %q", history[0].Role, history[1].Role)
	}
}

func TestSendPassesPriorHistoryOnly(t *testing.T) {
	session := newTestSession(t, 10)
	answerer := &fakeAnswerer{}

	if _, err := session.Send(context.Background(), answerer, "first"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if _, err := session.Send(context.Background(), answerer, "second"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	// the second call sees the first exchange but not its own query
	if len(answerer.lastHistory) != 2 {
		t.Errorf("expected 2 history messages passed, got %d", len(answerer.lastHistory))
	}
}

func TestHistoryCap(t *testing.T) {
	session := newTestSession(t, 10)
	answerer := &fakeAnswerer{}

	for i := range 24 {
		query := fmt.Sprintf("question %d", i)
		if _, err := session.Send(context.Background(), answerer, query); err != nil {
			t.Fatalf("Send %d failed: %v", i, err)
		}
	}

	history := session.History()
	if len(history) != 20 {
		t.Fatalf("expected history capped at 20 messages, got %d", len(history))
	}

	// oldest surviving turn is exchange 14 of 24
	if history[0].Content != "question 14" {
		t.Errorf("expected oldest turn to be question 14, got %q", history[0].Content)
	}

	// trimming keeps whole pairs
	for i, message := range history {
		want := "user"
		if i%2 == 1 {
			want = "assistant"
		}

		if message.Role != want {
			t.Errorf("message %d: expected role %q, got %q", i, want, message.Role)
		}
	}

	// stats describe the capped history, not every send ever
	stats := session.Stats()
	if stats.ConversationTurns != 10 {
		t.Errorf("expected 10 conversation turns after trimming, got %d", stats.ConversationTurns)
	}

	if stats.TotalMessages != 20 || stats.UserMessages != 10 || stats.AssistantMessages != 10 {
		t.Errorf("unexpected message breakdown: total %d, user %d, assistant %d",
			stats.TotalMessages, stats.UserMessages, stats.AssistantMessages)
	}
}

func TestSendRejectsEmptyMessage(t *testing.T) {
	session := newTestSession(t, 10)

	if _, err := session.Send(context.Background(), &fakeAnswerer{}, "   \n"); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestSendFailureLeavesHistoryUntouched(t *testing.T) {
	session := newTestSession(t, 10)

	if _, err := session.Send(context.Background(), &fakeAnswerer{err: errors.New("boom")}, "question"); err == nil {
		t.Fatal("expected error from answerer")
	}

	if len(session.History()) != 0 {
		t.Error("failed exchange should not be recorded")
	}
}

func TestReset(t *testing.T) {
	session := newTestSession(t, 10)
	answerer := &fakeAnswerer{}

	if _, err := session.Send(context.Background(), answerer, "question"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	session.Reset()

	if len(session.History()) != 0 {
		t.Error("expected empty history after reset")
	}

	if session.Stats().ConversationTurns != 0 {
		t.Error("expected conversation turns reset")
	}
}

func TestManagerGetSession(t *testing.T) {
	manager := NewManager(time.Hour, 10)

	session, err := manager.CreateSession()
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	if len(session.ID) != 32 {
		t.Errorf("expected 32-char hex ID, got %q", session.ID)
	}

	got, err := manager.GetSession(session.ID)
	if err != nil || got.ID != session.ID {
		t.Errorf("expected to retrieve the created session, got %v", err)
	}

	if _, err := manager.GetSession("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound for unknown ID, got %v", err)
	}
}

func TestManagerExpiry(t *testing.T) {
	manager := NewManager(10*time.Millisecond, 10)

	session, err := manager.CreateSession()
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	time.Sleep(30 * time.Millisecond)

	if _, err := manager.GetSession(session.ID); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("expected ErrSessionExpired, got %v", err)
	}

	// the expired session is dropped, later lookups report not-found
	if _, err := manager.GetSession(session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound after eviction, got %v", err)
	}
}

func TestManagerDeleteSession(t *testing.T) {
	manager := NewManager(time.Hour, 10)

	session, err := manager.CreateSession()
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	manager.DeleteSession(session.ID)

	if _, err := manager.GetSession(session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound after delete, got %v", err)
	}

	if manager.SessionCount() != 0 {
		t.Errorf("expected 0 sessions, got %d", manager.SessionCount())
	}
}

func TestGetOrCreateSession(t *testing.T) {
	manager := NewManager(time.Hour, 10)

	created, err := manager.GetOrCreateSession("")
	if err != nil {
		t.Fatalf("GetOrCreateSession failed: %v", err)
	}

	same, err := manager.GetOrCreateSession(created.ID)
	if err != nil {
		t.Fatalf("GetOrCreateSession failed: %v", err)
	}

	if same.ID != created.ID {
		t.Error("expected existing session for known ID")
	}

	fresh, err := manager.GetOrCreateSession("unknown")
	if err != nil {
		t.Fatalf("GetOrCreateSession failed: %v", err)
	}

	if fresh.ID == created.ID {
		t.Error("expected a fresh session for unknown ID")
	}

	if manager.SessionCount() != 2 {
		t.Errorf("expected 2 sessions, got %d", manager.SessionCount())
	}
}
