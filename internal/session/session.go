// Package session holds per-user conversation state and routes each
// incoming message through onboarding or the intent router.
package session

import (
	"sync"
	"time"

	"github.com/dkozlov/finance_assistant/internal/model"
)

// contextDepth is how many conversation turns a session remembers.
const contextDepth = 10

// Session is the in-memory conversation state for one user. Everything
// here is reconstructible from the ledger; losing a session never loses
// data.
type Session struct {
	State        model.UserState
	BudgetCursor int
	Context      []model.ContextEntry
}

// Remember appends a conversation turn, evicting the oldest once the
// ring is full.
func (s *Session) Remember(message, responseTag string) {
	s.Context = append(s.Context, model.ContextEntry{
		Message:     message,
		ResponseTag: responseTag,
		Timestamp:   time.Now(),
	})
	if len(s.Context) > contextDepth {
		s.Context = s.Context[len(s.Context)-contextDepth:]
	}
}

// LastTag returns the response tag of the most recent turn, or "" for a
// fresh session.
func (s *Session) LastTag() string {
	if len(s.Context) == 0 {
		return ""
	}
	return s.Context[len(s.Context)-1].ResponseTag
}

// Store keeps sessions by user. Implementations must be safe for
// concurrent use.
type Store interface {
	Get(userID int64) (*Session, bool)
	Put(userID int64, session *Session)
}

// MemoryStore is the default process-local Store.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]*Session)}
}

func (s *MemoryStore) Get(userID int64) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[userID]
	return session, ok
}

func (s *MemoryStore) Put(userID int64, session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = session
}
