// Package session owns per-thread conversation state. Each thread has an
// append-only message history and a language preference; threads never
// share state.
package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/Nithin1682/voice-assistant/internal/domain"
)

const DefaultLanguage = "English"

// Session is the state of one conversation thread.
type Session struct {
	ThreadID  string
	Language  string
	CreatedAt time.Time

	history []domain.Message
}

// Store manages sessions keyed by thread ID. All mutations of a given
// thread go through the store; callers serialize whole turns with Lock.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex

	defaultLanguage string
	logger          *slog.Logger
}

func NewStore(defaultLanguage string, logger *slog.Logger) *Store {
	if defaultLanguage == "" {
		defaultLanguage = DefaultLanguage
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		sessions:        make(map[string]*Session),
		locks:           make(map[string]*sync.Mutex),
		defaultLanguage: defaultLanguage,
		logger:          logger,
	}
}

// Lock acquires the per-thread mutex and returns its release function.
// Turns on the same thread are serialized FIFO; distinct threads do not
// contend.
func (s *Store) Lock(threadID string) func() {
	s.lockMu.Lock()
	l, ok := s.locks[threadID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[threadID] = l
	}
	s.lockMu.Unlock()

	l.Lock()
	return l.Unlock
}

// GetOrCreate returns the session for threadID, creating it lazily on
// first use.
func (s *Store) GetOrCreate(threadID string) *Session {
	s.mu.RLock()
	if sess, ok := s.sessions[threadID]; ok {
		s.mu.RUnlock()
		return sess
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[threadID]; ok {
		return sess
	}

	sess := &Session{
		ThreadID:  threadID,
		Language:  s.defaultLanguage,
		CreatedAt: time.Now(),
	}
	s.sessions[threadID] = sess
	s.logger.Info("session created", "thread_id", threadID)
	return sess
}

// Exists reports whether a session already exists for threadID, without
// creating one.
func (s *Store) Exists(threadID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[threadID]
	return ok
}

// Append adds a message to the thread's history, creating the session
// first if needed.
func (s *Store) Append(threadID string, msg domain.Message) {
	sess := s.GetOrCreate(threadID)
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.history = append(sess.history, msg)
}

// History returns a copy of the thread's message history, oldest first.
// A missing thread yields an empty history.
func (s *Store) History(threadID string) []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[threadID]
	if !ok {
		return nil
	}
	out := make([]domain.Message, len(sess.history))
	copy(out, sess.history)
	return out
}

// Language returns the thread's language preference, or the default when
// the thread does not exist.
func (s *Store) Language(threadID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.sessions[threadID]; ok {
		return sess.Language
	}
	return s.defaultLanguage
}

// SetLanguage updates the thread's language preference.
func (s *Store) SetLanguage(threadID, language string) {
	sess := s.GetOrCreate(threadID)
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.Language = language
}

// Delete removes the session wholesale. Deleting an unknown thread is a
// no-op success; deletion is always idempotent.
func (s *Store) Delete(threadID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[threadID]; ok {
		delete(s.sessions, threadID)
		s.logger.Info("session deleted", "thread_id", threadID)
	}
}

// Count returns the number of live sessions.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
