package eyes

import (
	"time"

	"github.com/itsatony/go-eyes/internal"
)

// Placeholder constants
const (
	DefaultPlaceholder = internal.StrPlaceholder
)

// Default configuration values
const (
	DefaultCacheSize          = 1024
	DefaultWorkers            = 8
	DefaultMaxLineSize        = 1024 * 1024 // 1MB
	DefaultFollowPollInterval = 100 * time.Millisecond
	DefaultFollowBufferSize   = 64
)

// Struct tag used by Unmarshal
const (
	StructTagName = "eyes"
	StructTagSkip = "-"
)

// Metadata keys for cuserr.WithMetadata
const (
	MetaKeyTemplate     = "template"
	MetaKeyInput        = "input"
	MetaKeyIndex        = "index"
	MetaKeyValue        = "value"
	MetaKeyType         = "type"
	MetaKeyExpected     = "expected"
	MetaKeyActual       = "actual"
	MetaKeyPatternName  = "pattern_name"
	MetaKeyPath         = "path"
	MetaKeyField        = "field"
	MetaKeyCatalogEntry = "catalog_entry"
	MetaKeyLine         = "line"
	MetaKeyDriverName   = "driver"
	MetaKeySuggestions  = "suggestions"
)

// Suggestions for unknown names
const (
	MaxSuggestions      = 3
	SuggestionSeparator = ", "
)

// Log message constants
const (
	LogMsgEngineCreated      = "eyes engine created"
	LogMsgPatternCompiled    = "pattern compiled"
	LogMsgPatternCacheHit    = "pattern cache hit"
	LogMsgPatternRegistered  = "named pattern registered"
	LogMsgPatternCollision   = "named pattern collision - first-come-wins"
	LogMsgNoMatch            = "input did not match template"
	LogMsgConversionFailed   = "capture conversion failed"
	LogMsgScanLinesStart     = "scanning lines"
	LogMsgScanLinesEnd       = "line scan complete"
	LogMsgFollowStart        = "following file"
	LogMsgFollowStop         = "stopped following file"
	LogMsgFollowTruncated    = "followed file truncated, rewinding"
	LogMsgFollowReplaced     = "followed file replaced, reopening"
	LogMsgFollowPolling      = "fsnotify unavailable, falling back to polling"
	LogMsgFollowReadFailed   = "failed to read followed file"
	LogMsgCatalogLoaded      = "catalog loaded"
	LogMsgCatalogRegistered  = "catalog patterns registered"
	LogMsgStorageLoaded      = "patterns loaded from storage"
	LogMsgStorageImported    = "catalog imported into storage"
	LogMsgStorageOpened      = "pattern storage opened"
	LogMsgStorageMigrated    = "pattern storage schema migrated"
	LogMsgStorageClosed      = "pattern storage closed"
	LogMsgMetricsInitFailed  = "metric instrument creation failed, using noop"
	LogMsgStoragePatternSkip = "stored pattern skipped"
)

// Log field names
const (
	LogFieldTemplate     = "template"
	LogFieldPlaceholder  = "placeholder"
	LogFieldPlaceholders = "placeholder_count"
	LogFieldCaptures     = "capture_count"
	LogFieldName         = "name"
	LogFieldPath         = "path"
	LogFieldLine         = "line"
	LogFieldLines        = "line_count"
	LogFieldMatched      = "matched_count"
	LogFieldWorkers      = "workers"
	LogFieldCount        = "count"
	LogFieldDriver       = "driver"
	LogFieldVersion      = "version"
	LogFieldError        = "error"
	LogFieldIndex        = "index"
	LogFieldType         = "type"
)

// Storage ID prefixes
const (
	PatternIDPrefix = "pat_"
)

// Storage driver names
const (
	StorageDriverNameMemory     = "memory"
	StorageDriverNameSQLite     = "sqlite"
	StorageDriverNamePostgres   = "postgres"
	StorageDriverNameFilesystem = "filesystem"
)

// Filesystem storage layout
const (
	FilesystemVersionPrefix   = "v"
	FilesystemVersionSuffix   = ".json"
	FilesystemTempSuffix      = ".tmp"
	FilesystemDirPermissions  = 0o755
	FilesystemFilePermissions = 0o644
)

// PostgreSQL storage driver configuration defaults
const (
	PostgresTablePrefix            = "eyes_"
	PostgresDefaultMaxOpenConns    = 25
	PostgresDefaultMaxIdleConns    = 5
	PostgresDefaultConnMaxLifetime = 5 * time.Minute
	PostgresDefaultConnMaxIdleTime = 5 * time.Minute
	PostgresDefaultQueryTimeout    = 30 * time.Second
)

// SQLite storage driver constants
const (
	SQLiteDriverName      = "sqlite"
	SQLiteMemoryDSN       = ":memory:"
	SQLiteTableName       = "eyes_patterns"
	SQLiteDefaultTimeout  = 30 * time.Second
	SQLitePragmaWAL       = "PRAGMA journal_mode=WAL"
	SQLitePragmaBusyMilli = "PRAGMA busy_timeout=5000"
)

// CatalogFormat identifies the encoding of a catalog file.
type CatalogFormat string

// Catalog formats
const (
	CatalogFormatYAML CatalogFormat = "yaml"
	CatalogFormatTOML CatalogFormat = "toml"
)

// Catalog file extensions
const (
	FileExtensionYAML = ".yaml"
	FileExtensionYML  = ".yml"
	FileExtensionTOML = ".toml"
)

// Metric instrument names
const (
	MetricMeterName        = "github.com/itsatony/go-eyes"
	MetricMatchTotal       = "eyes.match.total"
	MetricMatchDuration    = "eyes.match.duration"
	MetricConversionErrors = "eyes.conversion.errors"
	MetricLinesTotal       = "eyes.lines.total"
	MetricAttrTemplate     = "template"
	MetricAttrResult       = "result"
	MetricAttrType         = "type"
	MetricResultMatched    = "matched"
	MetricResultNoMatch    = "no_match"
	MetricUnitMillis       = "ms"
)
