package eyes

import (
	"sort"
	"sync"

	"github.com/itsatony/go-eyes/internal"
	"go.uber.org/zap"
)

// Engine is the main entry point for template matching.
// It compiles and caches templates, holds the conversion type table, and keeps
// a registry of named patterns. An Engine is safe for concurrent use.
type Engine struct {
	splitter *internal.Splitter
	matcher  *internal.Matcher
	types    *internal.TypeRegistry
	cache    *PatternCache
	patterns map[string]*Pattern // Named patterns
	patMu    sync.RWMutex        // Protects patterns map
	config   *engineConfig
	metrics  MetricsRecorder
	logger   *zap.Logger
}

// New creates a new Engine with the given options.
func New(opts ...Option) (*Engine, error) {
	config := defaultEngineConfig()
	for _, opt := range opts {
		opt(config)
	}

	logger := config.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := config.metrics
	if metrics == nil {
		metrics = NoopMetrics{}
	}

	types := internal.NewTypeRegistry(logger)
	internal.RegisterBuiltinTypes(types)

	e := &Engine{
		splitter: internal.NewSplitterWithPlaceholder(config.placeholder, logger),
		matcher:  internal.NewMatcher(logger),
		types:    types,
		cache:    NewPatternCache(config.cacheSize),
		patterns: make(map[string]*Pattern),
		config:   config,
		metrics:  metrics,
		logger:   logger,
	}

	for _, def := range config.types {
		if err := e.RegisterType(def); err != nil {
			return nil, err
		}
	}

	logger.Debug(LogMsgEngineCreated, zap.String(LogFieldPlaceholder, config.placeholder))
	return e, nil
}

// MustNew creates a new Engine and panics if there's an error.
func MustNew(opts ...Option) *Engine {
	engine, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return engine
}

// Compile splits a template into its literal segments. Compilation cannot fail:
// every string is a valid template. Results are memoized by source.
func (e *Engine) Compile(template string) *Pattern {
	if p, ok := e.cache.Get(template); ok {
		e.logger.Debug(LogMsgPatternCacheHit, zap.String(LogFieldTemplate, template))
		return p
	}

	tmpl := e.splitter.Split(template)
	p := newPattern(template, tmpl, e)
	e.logger.Debug(LogMsgPatternCompiled,
		zap.String(LogFieldTemplate, template),
		zap.Int(LogFieldPlaceholders, tmpl.Placeholders))
	return e.cache.Put(p)
}

// Match is a convenience method that compiles and matches in one step.
func (e *Engine) Match(input, template string) (*Captures, error) {
	return e.Compile(template).Match(input)
}

// MustMatch is like Match but panics if the input does not match.
func (e *Engine) MustMatch(input, template string) *Captures {
	return e.Compile(template).MustMatch(input)
}

// Placeholder returns the placeholder marker used by this engine.
func (e *Engine) Placeholder() string {
	return e.config.placeholder
}

// CacheStats returns compiled template cache statistics.
func (e *Engine) CacheStats() PatternCacheStats {
	return e.cache.Stats()
}

// Logger returns the engine's logger.
func (e *Engine) Logger() *zap.Logger {
	return e.logger
}

// RegisterType adds a named conversion target.
// Returns an error if the name or one of its aliases is already taken.
func (e *Engine) RegisterType(def *TypeDef) error {
	if def == nil || def.Convert == nil {
		return NewUnsupportedTypeError("")
	}

	internalDef := &internal.TypeDef{
		Name:    def.Name,
		GoType:  def.GoType,
		Convert: def.Convert,
	}
	if def.GoType != nil {
		internalDef.GoName = def.GoType.Name()
		internalDef.ImportPath = def.GoType.PkgPath()
	}

	if err := e.types.Register(internalDef, def.Aliases...); err != nil {
		return NewTypeRegistrationError(def.Name, err)
	}
	return nil
}

// MustRegisterType adds a type and panics on error.
func (e *Engine) MustRegisterType(def *TypeDef) {
	if err := e.RegisterType(def); err != nil {
		panic(err)
	}
}

// TypeNames returns every type name and alias usable in type lists, sorted.
func (e *Engine) TypeNames() []string {
	return e.types.Names()
}

// HasType reports whether a type name is registered.
func (e *Engine) HasType(name string) bool {
	_, ok := e.types.Lookup(name)
	return ok
}

// RegisterPattern compiles a template and registers it under name.
// Names are first-come-wins: a collision returns an error.
func (e *Engine) RegisterPattern(name, template string) error {
	if name == "" {
		return NewEmptyPatternNameError()
	}

	p := e.Compile(template)

	e.patMu.Lock()
	defer e.patMu.Unlock()

	if _, exists := e.patterns[name]; exists {
		e.logger.Warn(LogMsgPatternCollision, zap.String(LogFieldName, name))
		return NewPatternExistsError(name)
	}

	e.patterns[name] = p
	e.logger.Debug(LogMsgPatternRegistered,
		zap.String(LogFieldName, name),
		zap.String(LogFieldTemplate, template))
	return nil
}

// MustRegisterPattern registers a pattern and panics on error.
func (e *Engine) MustRegisterPattern(name, template string) {
	if err := e.RegisterPattern(name, template); err != nil {
		panic(err)
	}
}

// UnregisterPattern removes a named pattern.
// Returns true if the pattern existed and was removed, false otherwise.
func (e *Engine) UnregisterPattern(name string) bool {
	e.patMu.Lock()
	defer e.patMu.Unlock()

	if _, exists := e.patterns[name]; exists {
		delete(e.patterns, name)
		return true
	}
	return false
}

// GetPattern retrieves a named pattern.
func (e *Engine) GetPattern(name string) (*Pattern, bool) {
	e.patMu.RLock()
	defer e.patMu.RUnlock()

	p, ok := e.patterns[name]
	return p, ok
}

// HasPattern checks if a pattern is registered with the given name.
func (e *Engine) HasPattern(name string) bool {
	e.patMu.RLock()
	defer e.patMu.RUnlock()

	_, ok := e.patterns[name]
	return ok
}

// ListPatterns returns all registered pattern names in sorted order.
func (e *Engine) ListPatterns() []string {
	e.patMu.RLock()
	defer e.patMu.RUnlock()

	names := make([]string, 0, len(e.patterns))
	for name := range e.patterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PatternCount returns the number of registered patterns.
func (e *Engine) PatternCount() int {
	e.patMu.RLock()
	defer e.patMu.RUnlock()

	return len(e.patterns)
}

// MatchNamed matches input against a registered pattern.
func (e *Engine) MatchNamed(name, input string) (*Captures, error) {
	p, ok := e.GetPattern(name)
	if !ok {
		return nil, NewPatternNotFoundError(name, e.ListPatterns()...)
	}
	return p.Match(input)
}
