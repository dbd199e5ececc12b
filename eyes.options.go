package eyes

import (
	"reflect"

	"go.uber.org/zap"
)

// Option is a functional option for configuring the Engine.
type Option func(*engineConfig)

// engineConfig holds the internal configuration for an Engine.
type engineConfig struct {
	placeholder string
	cacheSize   int
	metrics     MetricsRecorder
	types       []*TypeDef
	logger      *zap.Logger
}

// defaultEngineConfig returns the default engine configuration.
func defaultEngineConfig() *engineConfig {
	return &engineConfig{
		placeholder: DefaultPlaceholder,
		cacheSize:   DefaultCacheSize,
		metrics:     nil,
		logger:      nil,
	}
}

// WithPlaceholder sets a custom placeholder marker.
// Default: "{}"
func WithPlaceholder(marker string) Option {
	return func(c *engineConfig) {
		if marker != "" {
			c.placeholder = marker
		}
	}
}

// WithCacheSize sets how many compiled templates the engine memoizes.
// Use 0 to disable caching.
// Default: 1024
func WithCacheSize(size int) Option {
	return func(c *engineConfig) {
		c.cacheSize = size
	}
}

// WithMetrics sets the metrics recorder.
// Default: NoopMetrics
func WithMetrics(recorder MetricsRecorder) Option {
	return func(c *engineConfig) {
		c.metrics = recorder
	}
}

// WithType registers a named conversion target on the engine.
// The name becomes usable by ParseAs and catalogs; GoType makes Scan and
// Unmarshal use the converter for destinations of that type.
func WithType(def *TypeDef) Option {
	return func(c *engineConfig) {
		if def != nil {
			c.types = append(c.types, def)
		}
	}
}

// WithLogger sets the logger for the engine.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// TypeDef describes a named conversion target.
type TypeDef struct {
	Name    string                      // Name used in type lists, e.g. "hex"
	Aliases []string                    // Additional names
	GoType  reflect.Type                // Type produced by Convert; optional
	Convert func(s string) (any, error) // Converts one capture
}
