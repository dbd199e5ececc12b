package eyes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteConfig configures the SQLite storage driver.
type SQLiteConfig struct {
	// Path is a database file path, or ":memory:" for a private in-memory database.
	Path string

	// QueryTimeout is the default timeout for queries.
	// Default: 30 seconds
	QueryTimeout time.Duration
}

// SQLiteStorage implements PatternStorage on a single SQLite file.
// It is suitable for single-process use such as the eyes CLI.
type SQLiteStorage struct {
	db     *sql.DB
	config SQLiteConfig
	mu     sync.RWMutex
	closed bool
}

// SQLiteStorageDriver is the driver for creating SQLiteStorage instances.
type SQLiteStorageDriver struct{}

func init() {
	RegisterStorageDriver(StorageDriverNameSQLite, &SQLiteStorageDriver{})
}

// Open creates a new SQLiteStorage. The connection string is a file path.
func (d *SQLiteStorageDriver) Open(connectionString string) (PatternStorage, error) {
	return NewSQLiteStorage(SQLiteConfig{Path: connectionString})
}

// NewSQLiteStorage opens the database, enables WAL and creates the schema.
func NewSQLiteStorage(config SQLiteConfig) (*SQLiteStorage, error) {
	if config.Path == "" {
		return nil, &StorageError{Message: ErrMsgStorageEmptyConnString}
	}
	if config.QueryTimeout == 0 {
		config.QueryTimeout = SQLiteDefaultTimeout
	}

	db, err := sql.Open(SQLiteDriverName, config.Path)
	if err != nil {
		return nil, &StorageError{Message: ErrMsgStorageConnectionFailed, Cause: err}
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), config.QueryTimeout)
	defer cancel()

	for _, stmt := range []string{
		SQLitePragmaWAL,
		SQLitePragmaBusyMilli,
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id          TEXT PRIMARY KEY,
				name        TEXT NOT NULL,
				template    TEXT NOT NULL,
				types       TEXT NOT NULL DEFAULT '[]',
				fields      TEXT NOT NULL DEFAULT '[]',
				description TEXT,
				tags        TEXT NOT NULL DEFAULT '[]',
				version     INTEGER NOT NULL,
				created_at  TEXT NOT NULL,
				updated_at  TEXT NOT NULL,
				created_by  TEXT,
				UNIQUE (name, version)
			)`, SQLiteTableName),
		fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS idx_%[1]s_name_version
			ON %[1]s(name, version DESC)`, SQLiteTableName),
	} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, &StorageError{Message: ErrMsgStorageMigrationFailed, Cause: err}
		}
	}

	return &SQLiteStorage{db: db, config: config}, nil
}

// Get retrieves the latest version of a pattern by name.
func (s *SQLiteStorage) Get(ctx context.Context, name string) (*StoredPattern, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.QueryTimeout)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE name = ?
		ORDER BY version DESC
		LIMIT 1`, patternColumns, SQLiteTableName)

	p, err := scanSQLitePattern(s.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewStoragePatternNotFoundError(name)
		}
		return nil, &StorageError{Message: ErrMsgStorageQueryFailed, Name: name, Cause: err}
	}
	return p, nil
}

// GetVersion retrieves a specific version of a pattern.
func (s *SQLiteStorage) GetVersion(ctx context.Context, name string, version int) (*StoredPattern, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.QueryTimeout)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE name = ? AND version = ?`, patternColumns, SQLiteTableName)

	p, err := scanSQLitePattern(s.db.QueryRowContext(ctx, query, name, version))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewStorageVersionNotFoundError(name, version)
		}
		return nil, &StorageError{Message: ErrMsgStorageQueryFailed, Name: name, Version: version, Cause: err}
	}
	return p, nil
}

// Save stores a pattern as a new version.
func (s *SQLiteStorage) Save(ctx context.Context, p *StoredPattern) error {
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

	lists, err := encodeLists(p)
	if err != nil {
		return &StorageError{Message: ErrMsgStorageMarshalFailed, Name: p.Name, Cause: err}
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.QueryTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &StorageError{Message: ErrMsgStorageTxFailed, Name: p.Name, Cause: err}
	}
	defer func() { _ = tx.Rollback() }()

	var maxVersion int
	err = tx.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COALESCE(MAX(version), 0) FROM %s WHERE name = ?", SQLiteTableName),
		p.Name).Scan(&maxVersion)
	if err != nil {
		return &StorageError{Message: ErrMsgStorageQueryFailed, Name: p.Name, Cause: err}
	}

	now := time.Now().UTC()
	stamp := now.Format(time.RFC3339Nano)
	id := generatePatternID()
	nextVersion := maxVersion + 1

	insert := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, SQLiteTableName, patternColumns)

	_, err = tx.ExecContext(ctx, insert,
		string(id), p.Name, p.Template, string(lists.types), string(lists.fields),
		nullString(p.Description), string(lists.tags), nextVersion, stamp, stamp, nullString(p.CreatedBy))
	if err != nil {
		return &StorageError{Message: ErrMsgStorageQueryFailed, Name: p.Name, Cause: err}
	}

	if err := tx.Commit(); err != nil {
		return &StorageError{Message: ErrMsgStorageTxFailed, Name: p.Name, Cause: err}
	}

	p.ID = id
	p.Version = nextVersion
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

// Delete removes all versions of a pattern by name.
func (s *SQLiteStorage) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.QueryTimeout)
	defer cancel()

	result, err := s.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE name = ?", SQLiteTableName), name)
	if err != nil {
		return &StorageError{Message: ErrMsgStorageQueryFailed, Name: name, Cause: err}
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return &StorageError{Message: ErrMsgStorageQueryFailed, Name: name, Cause: err}
	}
	if affected == 0 {
		return NewStoragePatternNotFoundError(name)
	}
	return nil
}

// List returns patterns matching the query. Version selection happens in SQL;
// name and tag filters and paging are applied to the result set.
func (s *SQLiteStorage) List(ctx context.Context, query *PatternQuery) ([]*StoredPattern, error) {
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

	ctx, cancel := context.WithTimeout(ctx, s.config.QueryTimeout)
	defer cancel()

	where := ""
	if !query.IncludeAllVersions {
		where = fmt.Sprintf(
			"WHERE version = (SELECT MAX(version) FROM %[1]s latest WHERE latest.name = %[1]s.name)",
			SQLiteTableName)
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT %s FROM %s
		%s
		ORDER BY name ASC, version DESC`, patternColumns, SQLiteTableName, where))
	if err != nil {
		return nil, &StorageError{Message: ErrMsgStorageQueryFailed, Cause: err}
	}
	defer rows.Close()

	results := []*StoredPattern{}
	for rows.Next() {
		p, err := scanSQLitePattern(rows)
		if err != nil {
			return nil, &StorageError{Message: ErrMsgStorageScanFailed, Cause: err}
		}
		if matchesQuery(p, query) {
			results = append(results, p)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Message: ErrMsgStorageQueryFailed, Cause: err}
	}
	return pageResults(results, query), nil
}

// Exists checks if a pattern with the given name exists.
func (s *SQLiteStorage) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, NewStorageClosedError()
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.QueryTimeout)
	defer cancel()

	var exists bool
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE name = ?)", SQLiteTableName),
		name).Scan(&exists)
	if err != nil {
		return false, &StorageError{Message: ErrMsgStorageQueryFailed, Name: name, Cause: err}
	}
	return exists, nil
}

// ListVersions returns all version numbers for a pattern, newest first.
func (s *SQLiteStorage) ListVersions(ctx context.Context, name string) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.QueryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT version FROM %s WHERE name = ? ORDER BY version DESC", SQLiteTableName),
		name)
	if err != nil {
		return nil, &StorageError{Message: ErrMsgStorageQueryFailed, Name: name, Cause: err}
	}
	defer rows.Close()

	return scanVersions(rows, name)
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return &StorageError{Message: ErrMsgStorageAlreadyClosed}
	}

	s.closed = true
	return s.db.Close()
}

// scanSQLitePattern reads one row in patternColumns order. Timestamps are RFC 3339 text.
func scanSQLitePattern(row rowScanner) (*StoredPattern, error) {
	var (
		p           StoredPattern
		id          string
		typesJSON   string
		fieldsJSON  string
		description sql.NullString
		tagsJSON    string
		createdAt   string
		updatedAt   string
		createdBy   sql.NullString
	)

	err := row.Scan(&id, &p.Name, &p.Template, &typesJSON, &fieldsJSON, &description,
		&tagsJSON, &p.Version, &createdAt, &updatedAt, &createdBy)
	if err != nil {
		return nil, err
	}

	p.ID = PatternID(id)
	p.Description = description.String
	p.CreatedBy = createdBy.String
	if p.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, err
	}
	if err := decodeLists(&p, []byte(typesJSON), []byte(fieldsJSON), []byte(tagsJSON)); err != nil {
		return nil, err
	}
	return &p, nil
}
