package preferencestore

import (
	"context"
	"sync"

	"github.com/yanqian/outfit-advisor/internal/domain/preference"
)

// MemoryStore keeps each user's newest events in process memory for tests/dev.
type MemoryStore struct {
	mu     sync.RWMutex
	events map[string][]preference.Event
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{events: make(map[string][]preference.Event)}
}

// Append implements preference.Store. Later events in the batch are treated as newer.
func (s *MemoryStore) Append(_ context.Context, userID string, events []preference.Event, window int) error {
	if len(events) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing := s.events[userID]
	merged := make([]preference.Event, 0, len(events)+len(existing))
	for i := len(events) - 1; i >= 0; i-- {
		merged = append(merged, events[i])
	}
	merged = append(merged, existing...)
	if window > 0 && len(merged) > window {
		merged = merged[:window]
	}
	s.events[userID] = merged
	return nil
}

// Recent implements preference.Store.
func (s *MemoryStore) Recent(_ context.Context, userID string, limit int) ([]preference.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.events[userID]
	if limit > 0 && len(stored) > limit {
		stored = stored[:limit]
	}
	out := make([]preference.Event, len(stored))
	copy(out, stored)
	return out, nil
}

var _ preference.Store = (*MemoryStore)(nil)
