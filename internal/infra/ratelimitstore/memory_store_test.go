package ratelimitstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreCountsWithinWindow(t *testing.T) {
	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	first, err := store.Increment(ctx, "rl:user-1", time.Minute)
	require.NoError(t, err)
	require.Equal(t, int64(1), first.Count)
	require.Equal(t, time.Minute, first.TTL)

	now = now.Add(20 * time.Second)
	second, err := store.Increment(ctx, "rl:user-1", time.Minute)
	require.NoError(t, err)
	require.Equal(t, int64(2), second.Count)
	require.Equal(t, 40*time.Second, second.TTL)

	other, err := store.Increment(ctx, "rl:user-2", time.Minute)
	require.NoError(t, err)
	require.Equal(t, int64(1), other.Count)
}

func TestMemoryStoreResetsElapsedWindow(t *testing.T) {
	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.Increment(ctx, "k", time.Minute)
		require.NoError(t, err)
	}
	now = now.Add(time.Minute)

	counter, err := store.Increment(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.Equal(t, int64(1), counter.Count)
	require.Equal(t, time.Minute, counter.TTL)
}

func TestMemoryStoreConcurrentIncrements(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	const workers = 50

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, _ = store.Increment(ctx, "shared", time.Minute)
		}()
	}
	wg.Wait()

	counter, err := store.Increment(ctx, "shared", time.Minute)
	require.NoError(t, err)
	require.Equal(t, int64(workers+1), counter.Count)
}
