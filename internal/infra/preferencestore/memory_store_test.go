package preferencestore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/outfit-advisor/internal/domain/preference"
)

func TestMemoryStoreKeepsNewestFirstWithinWindow(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "u1", []preference.Event{
		{Tag: "a", Signal: preference.SignalLike},
		{Tag: "b", Signal: preference.SignalLike},
	}, 3))
	require.NoError(t, store.Append(ctx, "u1", []preference.Event{
		{Tag: "c", Signal: preference.SignalDislike},
		{Tag: "d", Signal: preference.SignalLike},
	}, 3))

	events, err := store.Recent(ctx, "u1", 10)
	require.NoError(t, err)
	require.Equal(t, []string{"d", "c", "b"}, tags(events))

	limited, err := store.Recent(ctx, "u1", 2)
	require.NoError(t, err)
	require.Equal(t, []string{"d", "c"}, tags(limited))

	empty, err := store.Recent(ctx, "u2", 10)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestMemoryStoreRecentReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Append(ctx, "u1", []preference.Event{{Tag: "a", Signal: preference.SignalLike}}, 5))

	events, err := store.Recent(ctx, "u1", 5)
	require.NoError(t, err)
	events[0].Tag = "mutated"

	again, err := store.Recent(ctx, "u1", 5)
	require.NoError(t, err)
	require.Equal(t, "a", again[0].Tag)
}

func tags(events []preference.Event) []string {
	out := make([]string, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Tag)
	}
	return out
}
