package chat

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"codeberg.org/taxdesk/server/internal/logger"
)

const cleanupInterval = 5 * time.Minute

// Manager holds chat sessions in memory, expiring idle ones.
type Manager struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	ttl      time.Duration
	maxPairs int
}

func NewManager(ttl time.Duration, maxPairs int) *Manager {
	if maxPairs <= 0 {
		maxPairs = defaultMaxHistoryPairs
	}

	m := &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		maxPairs: maxPairs,
	}

	go m.cleanupExpiredSessions()

	return m
}

// returns a new random session ID
func GenerateSessionID() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}

	return hex.EncodeToString(bytes), nil
}

func (m *Manager) CreateSession() (*Session, error) {
	id, err := GenerateSessionID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := &Session{
		ID:        id,
		maxPairs:  m.maxPairs,
		createdAt: now,
		ttl:       m.ttl,
	}
	session.lastActivity = now
	session.expiresAt = now.Add(m.ttl)

	m.mu.Lock()
	m.sessions[id] = session
	m.mu.Unlock()

	return session, nil
}

func (m *Manager) GetSession(sessionID string) (*Session, error) {
	m.mu.RLock()
	session, exists := m.sessions[sessionID]
	m.mu.RUnlock()

	if !exists {
		return nil, ErrSessionNotFound
	}

	if session.expired(time.Now()) {
		m.DeleteSession(sessionID)
		return nil, ErrSessionExpired
	}

	return session, nil
}

// returns the session for the ID, or a fresh one when the ID is
// empty, unknown or expired
func (m *Manager) GetOrCreateSession(sessionID string) (*Session, error) {
	if sessionID != "" {
		if session, err := m.GetSession(sessionID); err == nil {
			return session, nil
		}
	}

	return m.CreateSession()
}

func (m *Manager) DeleteSession(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}

func (m *Manager) SessionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// runs periodically to remove expired sessions
func (m *Manager) cleanupExpiredSessions() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		removed := 0

		m.mu.Lock()

		for id, session := range m.sessions {
			if session.expired(now) {
				delete(m.sessions, id)
				removed++
			}
		}

		m.mu.Unlock()

		if removed > 0 {
			logger.Debug("cleaned up expired sessions", "removed", removed)
		}
	}
}
