package ingest

import "sync"

// Tracker keeps the most recent progress update for polling. Writes
// are last-write-wins; readers always see a complete snapshot.
type Tracker struct {
	mu      sync.RWMutex
	current Progress
	seen    bool
}

func NewTracker() *Tracker {
	return &Tracker{}
}

func (t *Tracker) Publish(progress Progress) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.current = progress
	t.seen = true
}

// returns the latest progress and whether any run has reported yet
func (t *Tracker) Current() (Progress, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.current, t.seen
}
