package lifecycle

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cakeauth/cakeauth-go/pkg/storage"
)

func TestCache_ServesFreshValueWithoutRefetch(t *testing.T) {
	var fetches atomic.Int32
	c := NewCache(CacheConfig{Key: "k"}, func(ctx context.Context) (string, error) {
		fetches.Add(1)
		return "value", nil
	})

	for i := 0; i < 5; i++ {
		v, err := c.Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "value", v)
	}

	assert.Equal(t, int32(1), fetches.Load())
}

func TestCache_RefetchesAfterTTL(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	var fetches atomic.Int32
	c := NewCache(CacheConfig{Key: "k"}, func(ctx context.Context) (int, error) {
		return int(fetches.Add(1)), nil
	})
	c.now = func() time.Time { return now }

	v, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	// One second short of the TTL the cached value still serves.
	now = now.Add(CacheTTL - time.Second)
	v, err = c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	now = now.Add(time.Second)
	v, err = c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestCache_SingleFlight(t *testing.T) {
	var fetches atomic.Int32
	release := make(chan struct{})

	c := NewCache(CacheConfig{Key: "k"}, func(ctx context.Context) (string, error) {
		fetches.Add(1)
		<-release
		return "value", nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.Get(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, "value", v)
		}()
	}

	// Give the goroutines time to pile up behind the first fetch.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, StateLoading, c.State())
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), fetches.Load())
}

func TestCache_KeepsStaleValueOnFailure(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	fetchErr := errors.New("backend down")

	var fail atomic.Bool
	var fetches atomic.Int32
	c := NewCache(CacheConfig{Key: "k"}, func(ctx context.Context) (string, error) {
		fetches.Add(1)
		if fail.Load() {
			return "", fetchErr
		}
		return "good", nil
	})
	c.now = func() time.Time { return now }

	_, err := c.Get(context.Background())
	require.NoError(t, err)

	fail.Store(true)
	now = now.Add(CacheTTL)

	v, err := c.Get(context.Background())
	require.ErrorIs(t, err, fetchErr)
	assert.Equal(t, "good", v)
	assert.Equal(t, StateError, c.State())

	// An errored cache keeps retrying on every read, still surfacing the
	// stale value alongside the failure.
	v, err = c.Get(context.Background())
	require.ErrorIs(t, err, fetchErr)
	assert.Equal(t, "good", v)
	assert.Equal(t, int32(3), fetches.Load())

	fail.Store(false)
	v, err = c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "good", v)
	assert.Equal(t, StateIdle, c.State())

	// Recovery clears the error, so fresh reads stop fetching again.
	_, err = c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(4), fetches.Load())
}

func TestCache_PersistsAndRehydrates(t *testing.T) {
	store := storage.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })

	var fetches atomic.Int32
	fetch := func(ctx context.Context) (string, error) {
		fetches.Add(1)
		return "persisted", nil
	}

	c1 := NewCache(CacheConfig{Key: "k", Store: store}, fetch)
	_, err := c1.Get(context.Background())
	require.NoError(t, err)

	// A second cache over the same store starts warm.
	c2 := NewCache(CacheConfig{Key: "k", Store: store}, fetch)
	v, ok := c2.Value()
	assert.True(t, ok)
	assert.Equal(t, "persisted", v)

	_, err = c2.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), fetches.Load())
}

func TestCache_DiscardsStaleSnapshot(t *testing.T) {
	store := storage.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })

	// Snapshot written 2 minutes in the past, well beyond the TTL.
	past := time.Now().Add(-2 * time.Minute).UnixMilli()
	raw := []byte(`{"value": "old", "timestamp": ` + strconv.FormatInt(past, 10) + `}`)
	require.NoError(t, store.Set(context.Background(), "k", raw, time.Time{}))

	c := NewCache(CacheConfig{Key: "k", Store: store}, func(ctx context.Context) (string, error) {
		return "fresh", nil
	})

	_, ok := c.Value()
	assert.False(t, ok)

	v, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)
}

func TestCache_ClearDropsValueAndSnapshot(t *testing.T) {
	store := storage.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })

	c := NewCache(CacheConfig{Key: "k", Store: store}, func(ctx context.Context) (string, error) {
		return "value", nil
	})

	_, err := c.Get(context.Background())
	require.NoError(t, err)

	require.NoError(t, c.Clear(context.Background()))

	_, ok := c.Value()
	assert.False(t, ok)

	_, found, err := store.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, found)
}
