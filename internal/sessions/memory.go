package sessions

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type memoryStore struct {
	mu    sync.RWMutex
	items map[int64]Session
	ttl   time.Duration
	now   func() time.Time
}

// NewMemoryStore: in-process хранилище; ttl <= 0 отключает протухание.
func NewMemoryStore(ttl time.Duration) Store {
	return &memoryStore{
		items: make(map[int64]Session),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (s *memoryStore) Get(_ context.Context, telegramID int64) (Session, error) {
	s.mu.RLock()
	sess, ok := s.items[telegramID]
	s.mu.RUnlock()

	if !ok || expired(sess.UpdatedAt, s.ttl, s.now()) {
		return idle(telegramID), nil
	}
	return sess, nil
}

func (s *memoryStore) Set(_ context.Context, telegramID int64, state State) error {
	if !state.Valid() {
		return fmt.Errorf("unknown session state %q", state)
	}

	s.mu.Lock()
	s.items[telegramID] = Session{
		TelegramID: telegramID,
		State:      state,
		UpdatedAt:  s.now(),
	}
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Clear(_ context.Context, telegramID int64) error {
	s.mu.Lock()
	delete(s.items, telegramID)
	s.mu.Unlock()
	return nil
}
