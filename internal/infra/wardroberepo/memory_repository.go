package wardroberepo

import (
	"context"
	"sort"
	"sync"

	"github.com/yanqian/outfit-advisor/internal/domain/outfit"
)

// MemoryRepository provides an in-memory wardrobe for tests/dev.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]map[string]outfit.WardrobeItem
}

// NewMemoryRepository constructs a new in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]map[string]outfit.WardrobeItem)}
}

// Put stores or replaces items for a user, keyed by item ID.
func (r *MemoryRepository) Put(_ context.Context, userID string, items ...outfit.WardrobeItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	owned, ok := r.items[userID]
	if !ok {
		owned = make(map[string]outfit.WardrobeItem)
		r.items[userID] = owned
	}
	for _, item := range items {
		item.UserID = userID
		owned[item.ID] = item
	}
	return nil
}

// ListByUser implements outfit.ItemRepository. Items are ordered by ID.
func (r *MemoryRepository) ListByUser(_ context.Context, userID string) ([]outfit.WardrobeItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	owned := r.items[userID]
	out := make([]outfit.WardrobeItem, 0, len(owned))
	for _, item := range owned {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

var _ outfit.ItemRepository = (*MemoryRepository)(nil)
