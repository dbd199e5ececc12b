package eyes

import (
	"context"
	"sync"
	"time"
)

// Storage cache defaults
const (
	DefaultStorageCacheTTL         = 5 * time.Minute
	DefaultStorageCacheMaxEntries  = 1000
	DefaultStorageCacheNegativeTTL = 30 * time.Second
)

// StorageCacheConfig configures a CachedStorage.
type StorageCacheConfig struct {
	// TTL is how long a cached pattern stays valid.
	TTL time.Duration

	// MaxEntries bounds the number of cached names. The least recently
	// used entry is evicted when full.
	MaxEntries int

	// NegativeTTL is how long a "not found" result is remembered.
	// Zero disables negative caching.
	NegativeTTL time.Duration
}

// DefaultStorageCacheConfig returns the default caching configuration.
func DefaultStorageCacheConfig() StorageCacheConfig {
	return StorageCacheConfig{
		TTL:         DefaultStorageCacheTTL,
		MaxEntries:  DefaultStorageCacheMaxEntries,
		NegativeTTL: DefaultStorageCacheNegativeTTL,
	}
}

// StorageCacheStats reports cache effectiveness.
type StorageCacheStats struct {
	Entries  int
	Negative int
	Hits     int64
	Misses   int64
}

// CachedStorage wraps a PatternStorage and caches latest-version lookups by
// name. Writes through the wrapper invalidate the affected name; writes made
// directly to the wrapped storage are seen once the TTL expires.
type CachedStorage struct {
	storage PatternStorage
	config  StorageCacheConfig

	mu      sync.Mutex
	entries map[string]*storageCacheEntry
	gen     uint64 // Bumped on every invalidation
	hits    int64
	misses  int64
	closed  bool
}

type storageCacheEntry struct {
	pattern  *StoredPattern // Nil for a negative entry
	cachedAt time.Time
	usedAt   time.Time
}

// NewCachedStorage wraps storage. Zero config fields take their defaults,
// except NegativeTTL where zero disables negative caching.
func NewCachedStorage(storage PatternStorage, config StorageCacheConfig) *CachedStorage {
	if config.TTL <= 0 {
		config.TTL = DefaultStorageCacheTTL
	}
	if config.MaxEntries <= 0 {
		config.MaxEntries = DefaultStorageCacheMaxEntries
	}
	return &CachedStorage{
		storage: storage,
		config:  config,
		entries: make(map[string]*storageCacheEntry),
	}
}

// Get returns the latest version of a pattern, from cache when fresh.
func (s *CachedStorage) Get(ctx context.Context, name string) (*StoredPattern, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, NewStorageClosedError()
	}
	if entry, ok := s.lookup(name); ok {
		s.hits++
		s.mu.Unlock()
		if entry.pattern == nil {
			return nil, NewStoragePatternNotFoundError(name)
		}
		return copyStoredPattern(entry.pattern), nil
	}
	s.misses++
	gen := s.gen
	s.mu.Unlock()

	p, err := s.storage.Get(ctx, name)
	if err != nil && !IsNotFound(err) {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Skip caching if the name may have changed while fetching.
	if !s.closed && s.gen == gen {
		if err == nil {
			s.store(name, copyStoredPattern(p))
		} else if s.config.NegativeTTL > 0 {
			s.store(name, nil)
		}
	}
	return p, err
}

// GetVersion reads through.
func (s *CachedStorage) GetVersion(ctx context.Context, name string, version int) (*StoredPattern, error) {
	return s.storage.GetVersion(ctx, name, version)
}

// Save writes through and invalidates the name.
func (s *CachedStorage) Save(ctx context.Context, p *StoredPattern) error {
	err := s.storage.Save(ctx, p)
	if err == nil {
		s.Invalidate(p.Name)
	}
	return err
}

// Delete writes through and invalidates the name.
func (s *CachedStorage) Delete(ctx context.Context, name string) error {
	err := s.storage.Delete(ctx, name)
	if err == nil {
		s.Invalidate(name)
	}
	return err
}

// List reads through.
func (s *CachedStorage) List(ctx context.Context, query *PatternQuery) ([]*StoredPattern, error) {
	return s.storage.List(ctx, query)
}

// Exists answers from a fresh cache entry when there is one.
func (s *CachedStorage) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false, NewStorageClosedError()
	}
	if entry, ok := s.lookup(name); ok {
		s.hits++
		s.mu.Unlock()
		return entry.pattern != nil, nil
	}
	s.mu.Unlock()

	return s.storage.Exists(ctx, name)
}

// ListVersions reads through.
func (s *CachedStorage) ListVersions(ctx context.Context, name string) ([]int, error) {
	return s.storage.ListVersions(ctx, name)
}

// Close drops the cache and closes the wrapped storage.
func (s *CachedStorage) Close() error {
	s.mu.Lock()
	s.closed = true
	s.entries = nil
	s.mu.Unlock()

	return s.storage.Close()
}

// Invalidate drops the cached entry for name.
func (s *CachedStorage) Invalidate(name string) {
	s.mu.Lock()
	delete(s.entries, name)
	s.gen++
	s.mu.Unlock()
}

// InvalidateAll drops every cached entry.
func (s *CachedStorage) InvalidateAll() {
	s.mu.Lock()
	if !s.closed {
		s.entries = make(map[string]*storageCacheEntry)
	}
	s.gen++
	s.mu.Unlock()
}

// Stats returns a snapshot of the cache counters.
func (s *CachedStorage) Stats() StorageCacheStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := StorageCacheStats{Hits: s.hits, Misses: s.misses}
	for _, entry := range s.entries {
		if !s.fresh(entry) {
			continue
		}
		stats.Entries++
		if entry.pattern == nil {
			stats.Negative++
		}
	}
	return stats
}

// lookup returns a fresh entry and marks it used. Caller must hold mu.
func (s *CachedStorage) lookup(name string) (*storageCacheEntry, bool) {
	entry, ok := s.entries[name]
	if !ok || !s.fresh(entry) {
		return nil, false
	}
	entry.usedAt = time.Now()
	return entry, true
}

// fresh reports whether entry is within its TTL. Caller must hold mu.
func (s *CachedStorage) fresh(entry *storageCacheEntry) bool {
	ttl := s.config.TTL
	if entry.pattern == nil {
		ttl = s.config.NegativeTTL
	}
	return time.Since(entry.cachedAt) < ttl
}

// store caches p under name, evicting the least recently used entry when
// full. Caller must hold mu.
func (s *CachedStorage) store(name string, p *StoredPattern) {
	if _, ok := s.entries[name]; !ok && len(s.entries) >= s.config.MaxEntries {
		var oldest string
		var oldestAt time.Time
		found := false
		for key, entry := range s.entries {
			if !found || entry.usedAt.Before(oldestAt) {
				oldest, oldestAt, found = key, entry.usedAt, true
			}
		}
		delete(s.entries, oldest)
	}

	now := time.Now()
	s.entries[name] = &storageCacheEntry{pattern: p, cachedAt: now, usedAt: now}
}
