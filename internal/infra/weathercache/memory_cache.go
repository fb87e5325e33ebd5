package weathercache

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/outfit-advisor/internal/domain/weather"
	"github.com/yanqian/outfit-advisor/pkg/util"
)

type snapshotRecord struct {
	payload   weather.Snapshot
	expiresAt time.Time
}

// MemoryCache keeps snapshots in process memory. Expired entries are evicted
// lazily on the next read of the same key.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]snapshotRecord
	now     util.Clock
}

// NewMemoryCache constructs a cache backed by process memory.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]snapshotRecord),
		now:     util.NowUTC,
	}
}

// Get implements weather.Cache.
func (c *MemoryCache) Get(_ context.Context, key string) (weather.Snapshot, bool, error) {
	c.mu.RLock()
	record, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return weather.Snapshot{}, false, nil
	}
	if c.hasExpired(record.expiresAt) {
		c.mu.Lock()
		// a concurrent Set may have refreshed the entry
		if current, still := c.entries[key]; still && c.hasExpired(current.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return weather.Snapshot{}, false, nil
	}
	return record.payload, true, nil
}

// Set implements weather.Cache. A non-positive ttl keeps the entry until replaced.
func (c *MemoryCache) Set(_ context.Context, key string, snap weather.Snapshot, ttl time.Duration) error {
	exp := time.Time{}
	if ttl > 0 {
		exp = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = snapshotRecord{payload: snap, expiresAt: exp}
	c.mu.Unlock()
	return nil
}

// Len reports the number of stored entries, expired or not.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *MemoryCache) hasExpired(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return !c.now().Before(ts)
}

var _ weather.Cache = (*MemoryCache)(nil)
