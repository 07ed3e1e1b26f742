// Package session keeps per-session chat history behind an explicit
// store interface. The in-memory implementation suits a single-process
// deployment and tests; production can swap in a shared backend without
// touching callers.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Default bounds. Oldest entries are evicted first when exceeded.
const (
	DefaultMaxSessions = 20
	DefaultMaxHistory  = 50
)

// Message is one turn of a conversation.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Store holds chat history keyed by session id.
type Store interface {
	// NewSession creates a session and returns its id.
	NewSession() string

	// Append adds a message to a session's history, creating the
	// session if the id is unknown.
	Append(sessionID string, msg Message)

	// History returns a copy of a session's messages in append order.
	// Unknown ids return an empty history, not an error.
	History(sessionID string) []Message

	// Delete removes a session and its history.
	Delete(sessionID string)

	// Len returns the number of live sessions.
	Len() int
}

// MemoryStore is a bounded in-memory Store.
type MemoryStore struct {
	mu          sync.Mutex
	sessions    map[string][]Message
	order       []string // session ids, oldest first
	maxSessions int
	maxHistory  int
}

// NewMemoryStore creates a store with the given bounds. Non-positive
// bounds fall back to the defaults.
func NewMemoryStore(maxSessions, maxHistory int) *MemoryStore {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	return &MemoryStore{
		sessions:    make(map[string][]Message),
		maxSessions: maxSessions,
		maxHistory:  maxHistory,
	}
}

func (s *MemoryStore) NewSession() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.createLocked(id)
	return id
}

func (s *MemoryStore) Append(sessionID string, msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		s.createLocked(sessionID)
	}

	history := append(s.sessions[sessionID], msg)
	if len(history) > s.maxHistory {
		history = history[len(history)-s.maxHistory:]
	}
	s.sessions[sessionID] = history
}

func (s *MemoryStore) History(sessionID string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.sessions[sessionID]
	out := make([]Message, len(history))
	copy(out, history)
	return out
}

func (s *MemoryStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
	for i, id := range s.order {
		if id == sessionID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// createLocked registers a session id, evicting the oldest session when
// the bound is hit. Caller holds mu.
func (s *MemoryStore) createLocked(id string) {
	if len(s.sessions) >= s.maxSessions && len(s.order) > 0 {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.sessions, oldest)
	}
	s.sessions[id] = []Message{}
	s.order = append(s.order, id)
}
