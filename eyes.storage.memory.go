package eyes

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStorage is an in-memory implementation of PatternStorage.
// It is primarily intended for tests and short-lived tools.
// All data is lost when the process terminates.
type MemoryStorage struct {
	mu       sync.RWMutex
	patterns map[string][]*StoredPattern // name -> versions, newest first
	closed   bool
}

// MemoryStorageDriver is the driver for creating MemoryStorage instances.
type MemoryStorageDriver struct{}

func init() {
	RegisterStorageDriver(StorageDriverNameMemory, &MemoryStorageDriver{})
}

// Open creates a new MemoryStorage instance.
// The connection string is ignored for memory storage.
func (d *MemoryStorageDriver) Open(connectionString string) (PatternStorage, error) {
	return NewMemoryStorage(), nil
}

// NewMemoryStorage creates a new in-memory pattern storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		patterns: make(map[string][]*StoredPattern),
	}
}

// Get retrieves the latest version of a pattern by name.
func (s *MemoryStorage) Get(ctx context.Context, name string) (*StoredPattern, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	versions, ok := s.patterns[name]
	if !ok || len(versions) == 0 {
		return nil, NewStoragePatternNotFoundError(name)
	}
	return copyStoredPattern(versions[0]), nil
}

// GetVersion retrieves a specific version of a pattern.
func (s *MemoryStorage) GetVersion(ctx context.Context, name string, version int) (*StoredPattern, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	for _, p := range s.patterns[name] {
		if p.Version == version {
			return copyStoredPattern(p), nil
		}
	}
	return nil, NewStorageVersionNotFoundError(name, version)
}

// Save stores a pattern as a new version.
func (s *MemoryStorage) Save(ctx context.Context, p *StoredPattern) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if p == nil || p.Name == "" {
		return &StorageError{Message: ErrMsgInvalidPatternName}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	now := time.Now()
	versions := s.patterns[p.Name]

	nextVersion := 1
	if len(versions) > 0 {
		nextVersion = versions[0].Version + 1
	}

	stored := copyStoredPattern(p)
	stored.ID = generatePatternID()
	stored.Version = nextVersion
	stored.CreatedAt = now
	stored.UpdatedAt = now

	// Update input pattern with generated values
	p.ID = stored.ID
	p.Version = stored.Version
	p.CreatedAt = stored.CreatedAt
	p.UpdatedAt = stored.UpdatedAt

	s.patterns[p.Name] = append([]*StoredPattern{stored}, versions...)
	return nil
}

// Delete removes all versions of a pattern by name.
func (s *MemoryStorage) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	if _, ok := s.patterns[name]; !ok {
		return NewStoragePatternNotFoundError(name)
	}
	delete(s.patterns, name)
	return nil
}

// List returns patterns matching the query.
func (s *MemoryStorage) List(ctx context.Context, query *PatternQuery) ([]*StoredPattern, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	if query == nil {
		query = &PatternQuery{}
	}

	var results []*StoredPattern
	for _, versions := range s.patterns {
		if len(versions) == 0 {
			continue
		}
		if !query.IncludeAllVersions {
			versions = versions[:1]
		}
		for _, p := range versions {
			if matchesQuery(p, query) {
				results = append(results, copyStoredPattern(p))
			}
		}
	}

	sortStoredPatterns(results)
	return pageResults(results, query), nil
}

// Exists checks if a pattern with the given name exists.
func (s *MemoryStorage) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, NewStorageClosedError()
	}

	return len(s.patterns[name]) > 0, nil
}

// ListVersions returns all version numbers for a pattern, newest first.
func (s *MemoryStorage) ListVersions(ctx context.Context, name string) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	versions := s.patterns[name]
	result := make([]int, len(versions))
	for i, p := range versions {
		result[i] = p.Version
	}
	return result, nil
}

// Close marks the storage as closed.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.patterns = nil
	return nil
}

// sortStoredPatterns orders by name, then version descending.
func sortStoredPatterns(results []*StoredPattern) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Name != results[j].Name {
			return results[i].Name < results[j].Name
		}
		return results[i].Version > results[j].Version
	})
}
