package eyes

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// FilesystemStorage keeps each pattern version as a JSON file:
//
//	<root>/
//	  <pattern-name>/
//	    v1.json
//	    v2.json
//
// Files are written to a temporary name and renamed into place, so readers
// never see a partial version.
type FilesystemStorage struct {
	mu     sync.RWMutex
	root   string
	closed bool
}

// FilesystemStorageDriver creates FilesystemStorage instances.
type FilesystemStorageDriver struct{}

func init() {
	RegisterStorageDriver(StorageDriverNameFilesystem, &FilesystemStorageDriver{})
}

// Open creates a FilesystemStorage rooted at the connection string.
func (d *FilesystemStorageDriver) Open(connectionString string) (PatternStorage, error) {
	return NewFilesystemStorage(connectionString)
}

// NewFilesystemStorage creates the root directory if needed.
func NewFilesystemStorage(root string) (*FilesystemStorage, error) {
	if root == "" {
		return nil, &StorageError{Message: ErrMsgStorageRootEmpty}
	}
	if err := os.MkdirAll(root, FilesystemDirPermissions); err != nil {
		return nil, &StorageError{Message: ErrMsgStorageIOFailed, Name: root, Cause: err}
	}
	return &FilesystemStorage{root: root}, nil
}

// Get retrieves the latest version of a pattern by name.
func (s *FilesystemStorage) Get(ctx context.Context, name string) (*StoredPattern, error) {
	if err := s.begin(ctx, name); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, NewStorageClosedError()
	}

	versions, err := s.versions(name)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, NewStoragePatternNotFoundError(name)
	}
	return s.load(name, versions[0])
}

// GetVersion retrieves a specific version of a pattern.
func (s *FilesystemStorage) GetVersion(ctx context.Context, name string, version int) (*StoredPattern, error) {
	if err := s.begin(ctx, name); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, NewStorageClosedError()
	}
	return s.load(name, version)
}

// Save writes the pattern as the next version.
func (s *FilesystemStorage) Save(ctx context.Context, p *StoredPattern) error {
	if p == nil {
		return &StorageError{Message: ErrMsgInvalidPatternName}
	}
	if err := s.begin(ctx, p.Name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return NewStorageClosedError()
	}

	dir := filepath.Join(s.root, p.Name)
	if err := os.MkdirAll(dir, FilesystemDirPermissions); err != nil {
		return &StorageError{Message: ErrMsgStorageIOFailed, Name: p.Name, Cause: err}
	}
	versions, err := s.versions(p.Name)
	if err != nil {
		return err
	}
	next := 1
	if len(versions) > 0 {
		next = versions[0] + 1
	}

	now := time.Now().UTC()
	stored := copyStoredPattern(p)
	stored.ID = generatePatternID()
	stored.Version = next
	stored.CreatedAt = now
	stored.UpdatedAt = now

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return &StorageError{Message: ErrMsgStorageMarshalFailed, Name: p.Name, Cause: err}
	}
	path := s.versionPath(p.Name, next)
	tmp := path + FilesystemTempSuffix
	if err := os.WriteFile(tmp, data, FilesystemFilePermissions); err != nil {
		return &StorageError{Message: ErrMsgStorageIOFailed, Name: p.Name, Version: next, Cause: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return &StorageError{Message: ErrMsgStorageIOFailed, Name: p.Name, Version: next, Cause: err}
	}

	p.ID = stored.ID
	p.Version = stored.Version
	p.CreatedAt = stored.CreatedAt
	p.UpdatedAt = stored.UpdatedAt
	return nil
}

// Delete removes the pattern directory with all its versions.
func (s *FilesystemStorage) Delete(ctx context.Context, name string) error {
	if err := s.begin(ctx, name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return NewStorageClosedError()
	}

	versions, err := s.versions(name)
	if err != nil {
		return err
	}
	if len(versions) == 0 {
		return NewStoragePatternNotFoundError(name)
	}
	if err := os.RemoveAll(filepath.Join(s.root, name)); err != nil {
		return &StorageError{Message: ErrMsgStorageIOFailed, Name: name, Cause: err}
	}
	return nil
}

// List returns patterns matching the query.
func (s *FilesystemStorage) List(ctx context.Context, query *PatternQuery) ([]*StoredPattern, error) {
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

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, &StorageError{Message: ErrMsgStorageIOFailed, Name: s.root, Cause: err}
	}

	results := []*StoredPattern{}
	for _, entry := range entries {
		if !entry.IsDir() || validatePatternFileName(entry.Name()) != nil {
			continue
		}
		versions, err := s.versions(entry.Name())
		if err != nil {
			return nil, err
		}
		if len(versions) > 0 && !query.IncludeAllVersions {
			versions = versions[:1]
		}
		for _, v := range versions {
			p, err := s.load(entry.Name(), v)
			if err != nil {
				return nil, err
			}
			if matchesQuery(p, query) {
				results = append(results, p)
			}
		}
	}

	sortStoredPatterns(results)
	return pageResults(results, query), nil
}

// Exists checks if a pattern with the given name has any version.
func (s *FilesystemStorage) Exists(ctx context.Context, name string) (bool, error) {
	versions, err := s.ListVersions(ctx, name)
	if err != nil {
		return false, err
	}
	return len(versions) > 0, nil
}

// ListVersions returns all version numbers for a pattern, newest first.
func (s *FilesystemStorage) ListVersions(ctx context.Context, name string) ([]int, error) {
	if err := s.begin(ctx, name); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, NewStorageClosedError()
	}
	return s.versions(name)
}

// Close marks the storage closed. Files are left in place.
func (s *FilesystemStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// begin checks the context and the name before any file access.
func (s *FilesystemStorage) begin(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return validatePatternFileName(name)
}

func (s *FilesystemStorage) versionPath(name string, version int) string {
	return filepath.Join(s.root, name, FilesystemVersionPrefix+strconv.Itoa(version)+FilesystemVersionSuffix)
}

// versions lists the version numbers on disk, newest first. Caller must hold mu.
func (s *FilesystemStorage) versions(name string) ([]int, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, name))
	if errors.Is(err, fs.ErrNotExist) {
		return []int{}, nil
	}
	if err != nil {
		return nil, &StorageError{Message: ErrMsgStorageIOFailed, Name: name, Cause: err}
	}

	versions := []int{}
	for _, entry := range entries {
		file := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(file, FilesystemVersionPrefix) || !strings.HasSuffix(file, FilesystemVersionSuffix) {
			continue
		}
		v, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(file, FilesystemVersionPrefix), FilesystemVersionSuffix))
		if err == nil && v > 0 {
			versions = append(versions, v)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(versions)))
	return versions, nil
}

// load reads one version file. Caller must hold mu.
func (s *FilesystemStorage) load(name string, version int) (*StoredPattern, error) {
	data, err := os.ReadFile(s.versionPath(name, version))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, NewStorageVersionNotFoundError(name, version)
	}
	if err != nil {
		return nil, &StorageError{Message: ErrMsgStorageIOFailed, Name: name, Version: version, Cause: err}
	}

	var p StoredPattern
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, &StorageError{Message: ErrMsgStorageUnmarshalFailed, Name: name, Version: version, Cause: err}
	}
	return &p, nil
}

// validatePatternFileName rejects names that are empty or not a single
// path element.
func validatePatternFileName(name string) error {
	if name == "" {
		return &StorageError{Message: ErrMsgInvalidPatternName}
	}
	if name == "." || strings.Contains(name, "..") || strings.ContainsAny(name, "/\\:*?\"<>|\x00") {
		return &StorageError{Message: ErrMsgUnsafePatternName, Name: name}
	}
	return nil
}
