// Package history keeps the rolling per-session conversation window the
// assistant feeds back to the completion API.
package history

import (
	"context"
	"sync"
	"time"
)

// Role tags a turn with its speaker.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Turn is one message of a conversation. Immutable once appended.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// MaxTurns bounds every session window; the oldest turns fall off first.
const MaxTurns = 10

// Store is the session history abstraction the orchestrator works against.
type Store interface {
	Append(sessionID string, t Turn)
	Recent(sessionID string) []Turn
	Close() error
}

type sessionWindow struct {
	turns        []Turn
	lastActivity time.Time
}

// MemoryStore is an in-process Store. All sessions live for the process
// lifetime unless the janitor evicts them after the idle TTL.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionWindow
	idleTTL  time.Duration
}

func NewMemoryStore(idleTTL time.Duration) *MemoryStore {
	if idleTTL <= 0 {
		idleTTL = 30 * time.Minute
	}
	return &MemoryStore{
		sessions: make(map[string]*sessionWindow),
		idleTTL:  idleTTL,
	}
}

// Append adds a turn to the session window, creating the session on first
// use and trimming to the most recent MaxTurns entries. The lock covers
// only the list mutation, never any network call.
func (s *MemoryStore) Append(sessionID string, t Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.sessions[sessionID]
	if !ok {
		w = &sessionWindow{}
		s.sessions[sessionID] = w
	}
	w.turns = append(w.turns, t)
	if len(w.turns) > MaxTurns {
		w.turns = append([]Turn(nil), w.turns[len(w.turns)-MaxTurns:]...)
	}
	w.lastActivity = time.Now().UTC()
}

// Recent returns a copy of the session's turn window in order, oldest
// first, or nil for an unseen session.
func (s *MemoryStore) Recent(sessionID string) []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.sessions[sessionID]
	if !ok || len(w.turns) == 0 {
		return nil
	}
	out := make([]Turn, len(w.turns))
	copy(out, w.turns)
	return out
}

// SessionCount reports how many session windows are currently held.
func (s *MemoryStore) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// StartJanitor periodically drops sessions that have been idle longer than
// the store's TTL, keeping the process-wide map bounded.
func (s *MemoryStore) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.evictIdle()
			}
		}
	}()
}

func (s *MemoryStore) evictIdle() {
	cutoff := time.Now().UTC().Add(-s.idleTTL)
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, w := range s.sessions {
		if w.lastActivity.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}

func (s *MemoryStore) Close() error { return nil }
