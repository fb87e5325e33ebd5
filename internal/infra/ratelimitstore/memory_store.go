package ratelimitstore

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/outfit-advisor/internal/domain/ratelimit"
	"github.com/yanqian/outfit-advisor/pkg/util"
)

type window struct {
	count   int64
	resetAt time.Time
}

// MemoryStore counts fixed windows in process memory. Counts are not shared
// between instances, so it only serves single-instance deployments and as the
// fallback when the shared store is unreachable.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]window
	now     util.Clock
}

// NewMemoryStore constructs an in-process counter store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		windows: make(map[string]window),
		now:     util.NowUTC,
	}
}

// Increment implements ratelimit.Store. An elapsed window is reset on access.
func (s *MemoryStore) Increment(_ context.Context, key string, size time.Duration) (ratelimit.Counter, error) {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = window{resetAt: now.Add(size)}
	}
	w.count++
	s.windows[key] = w
	return ratelimit.Counter{Count: w.count, TTL: w.resetAt.Sub(now)}, nil
}

var _ ratelimit.Store = (*MemoryStore)(nil)
