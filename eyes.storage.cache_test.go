package eyes

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStorage counts Get calls reaching the wrapped storage.
type countingStorage struct {
	PatternStorage
	gets atomic.Int64
}

func (s *countingStorage) Get(ctx context.Context, name string) (*StoredPattern, error) {
	s.gets.Add(1)
	return s.PatternStorage.Get(ctx, name)
}

func newCountingCache(t *testing.T, config StorageCacheConfig) (*CachedStorage, *countingStorage) {
	t.Helper()
	inner := &countingStorage{PatternStorage: NewMemoryStorage()}
	cached := NewCachedStorage(inner, config)
	t.Cleanup(func() { _ = cached.Close() })
	return cached, inner
}

func TestCachedStorage_Conformance(t *testing.T) {
	runStorageConformance(t, func(t *testing.T) PatternStorage {
		return NewCachedStorage(NewMemoryStorage(), DefaultStorageCacheConfig())
	})
}

func TestCachedStorage_Hits(t *testing.T) {
	ctx := context.Background()
	cached, inner := newCountingCache(t, DefaultStorageCacheConfig())
	require.NoError(t, cached.Save(ctx, &StoredPattern{Name: "claim", Template: "#{} @ {},{}: {}x{}"}))

	for i := 0; i < 3; i++ {
		p, err := cached.Get(ctx, "claim")
		require.NoError(t, err)
		assert.Equal(t, 1, p.Version)
	}
	assert.Equal(t, int64(1), inner.gets.Load())

	exists, err := cached.Exists(ctx, "claim")
	require.NoError(t, err)
	assert.True(t, exists)

	stats := cached.Stats()
	assert.Equal(t, int64(3), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Entries)
}

func TestCachedStorage_SaveInvalidates(t *testing.T) {
	ctx := context.Background()
	cached, inner := newCountingCache(t, DefaultStorageCacheConfig())
	require.NoError(t, cached.Save(ctx, &StoredPattern{Name: "p", Template: "{}"}))

	_, err := cached.Get(ctx, "p")
	require.NoError(t, err)
	require.NoError(t, cached.Save(ctx, &StoredPattern{Name: "p", Template: "{}={}"}))

	p, err := cached.Get(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, 2, p.Version)
	assert.Equal(t, "{}={}", p.Template)
	assert.Equal(t, int64(2), inner.gets.Load())
}

func TestCachedStorage_NegativeCaching(t *testing.T) {
	ctx := context.Background()

	t.Run("enabled", func(t *testing.T) {
		cached, inner := newCountingCache(t, DefaultStorageCacheConfig())
		for i := 0; i < 2; i++ {
			_, err := cached.Get(ctx, "missing")
			assert.True(t, IsNotFound(err))
		}
		assert.Equal(t, int64(1), inner.gets.Load())
		assert.Equal(t, 1, cached.Stats().Negative)

		exists, err := cached.Exists(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("disabled", func(t *testing.T) {
		cached, inner := newCountingCache(t, StorageCacheConfig{})
		for i := 0; i < 2; i++ {
			_, err := cached.Get(ctx, "missing")
			assert.True(t, IsNotFound(err))
		}
		assert.Equal(t, int64(2), inner.gets.Load())
	})
}

func TestCachedStorage_TTL(t *testing.T) {
	ctx := context.Background()
	cached, inner := newCountingCache(t, StorageCacheConfig{TTL: 200 * time.Millisecond})
	require.NoError(t, cached.Save(ctx, &StoredPattern{Name: "p", Template: "{}"}))

	_, err := cached.Get(ctx, "p")
	require.NoError(t, err)

	// Written behind the cache's back.
	require.NoError(t, inner.Save(ctx, &StoredPattern{Name: "p", Template: "{}-{}"}))

	p, err := cached.Get(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, 1, p.Version)

	time.Sleep(300 * time.Millisecond)
	p, err = cached.Get(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, 2, p.Version)
}

func TestCachedStorage_Eviction(t *testing.T) {
	ctx := context.Background()
	cached, inner := newCountingCache(t, StorageCacheConfig{MaxEntries: 2})
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, cached.Save(ctx, &StoredPattern{Name: name, Template: "{}"}))
	}

	_, _ = cached.Get(ctx, "a")
	time.Sleep(time.Millisecond)
	_, _ = cached.Get(ctx, "b")
	time.Sleep(time.Millisecond)
	_, _ = cached.Get(ctx, "a") // a is now more recent than b
	time.Sleep(time.Millisecond)
	_, _ = cached.Get(ctx, "c") // evicts b

	assert.Equal(t, 2, cached.Stats().Entries)
	before := inner.gets.Load()
	_, _ = cached.Get(ctx, "a")
	assert.Equal(t, before, inner.gets.Load())
	_, _ = cached.Get(ctx, "b")
	assert.Equal(t, before+1, inner.gets.Load())
}

func TestCachedStorage_InvalidateAll(t *testing.T) {
	ctx := context.Background()
	cached, inner := newCountingCache(t, DefaultStorageCacheConfig())
	require.NoError(t, cached.Save(ctx, &StoredPattern{Name: "p", Template: "{}"}))

	_, _ = cached.Get(ctx, "p")
	cached.InvalidateAll()
	assert.Equal(t, 0, cached.Stats().Entries)

	_, _ = cached.Get(ctx, "p")
	assert.Equal(t, int64(2), inner.gets.Load())
}

func TestCachedStorage_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	cached, _ := newCountingCache(t, DefaultStorageCacheConfig())
	require.NoError(t, cached.Save(ctx, &StoredPattern{Name: "p", Template: "{}", Tags: []string{"a"}}))

	first, err := cached.Get(ctx, "p")
	require.NoError(t, err)
	first.Tags[0] = "mutated"

	second, err := cached.Get(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, second.Tags)
}
