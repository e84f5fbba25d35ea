// Package session holds pending admin input modes. State lives in process
// memory only and is lost on restart; an admin mid-flow re-selects the action.
package session

import (
	"sync"

	domain "tg-control-bot/internal/domain/session"
)

// MemoryStore is a mutex-guarded session.Store.
type MemoryStore struct {
	mu    sync.Mutex
	modes map[int64]domain.Mode
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{modes: make(map[int64]domain.Mode)}
}

func (s *MemoryStore) Get(adminID int64) (domain.Mode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.modes[adminID]
	return m, ok
}

func (s *MemoryStore) Set(adminID int64, mode domain.Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modes[adminID] = mode
}

func (s *MemoryStore) Clear(adminID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.modes, adminID)
}

var _ domain.Store = (*MemoryStore)(nil)
