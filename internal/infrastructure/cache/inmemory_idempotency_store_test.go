package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *InMemoryIdempotencyStore {
	t.Helper()
	store := NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestInMemoryIdempotencyStore_FirstMarkWins(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.MarkProcessed(ctx, "evt-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, first)

	second, err := store.MarkProcessed(ctx, "evt-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, second)
}

func TestInMemoryIdempotencyStore_DistinctKeysIndependent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, key := range []string{"evt-1", "evt-2", "evt-3"} {
		fresh, err := store.MarkProcessed(ctx, key, time.Minute)
		require.NoError(t, err)
		assert.True(t, fresh, key)
	}
	assert.Equal(t, 3, store.Size())
}

func TestInMemoryIdempotencyStore_IsProcessed(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seen, err := store.IsProcessed(ctx, "evt-1")
	require.NoError(t, err)
	assert.False(t, seen)

	_, err = store.MarkProcessed(ctx, "evt-1", time.Minute)
	require.NoError(t, err)

	seen, err = store.IsProcessed(ctx, "evt-1")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestInMemoryIdempotencyStore_ExpiredKeyCanBeReclaimed(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.MarkProcessed(ctx, "evt-1", 10*time.Millisecond)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	seen, err := store.IsProcessed(ctx, "evt-1")
	require.NoError(t, err)
	assert.False(t, seen)

	fresh, err := store.MarkProcessed(ctx, "evt-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, fresh)
}

func TestInMemoryIdempotencyStore_Sweep(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.MarkProcessed(ctx, "stale", 5*time.Millisecond)
	require.NoError(t, err)
	_, err = store.MarkProcessed(ctx, "fresh", time.Minute)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	store.sweep()

	assert.Equal(t, 1, store.Size())
}

func TestInMemoryIdempotencyStore_CloseIsIdempotent(t *testing.T) {
	store := NewInMemoryIdempotencyStore()

	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}

func TestInMemoryIdempotencyStore_ConcurrentClaims(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	const goroutines = 32
	var wins int64
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fresh, err := store.MarkProcessed(ctx, "contested", time.Minute)
			assert.NoError(t, err)
			if fresh {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), wins)
}
