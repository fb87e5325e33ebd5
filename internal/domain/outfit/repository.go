package outfit

import "context"

// ItemRepository is the read side of a user's wardrobe.
type ItemRepository interface {
	ListByUser(ctx context.Context, userID string) ([]WardrobeItem, error)
}
