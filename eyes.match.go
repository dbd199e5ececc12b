package eyes

import (
	"sync"
)

var (
	defaultEngine     *Engine
	defaultEngineOnce sync.Once
)

// Default returns the package-level engine used by the top-level functions.
// It uses the "{}" placeholder, no logging and no metrics.
func Default() *Engine {
	defaultEngineOnce.Do(func() {
		defaultEngine = MustNew()
	})
	return defaultEngine
}

// Compile compiles template on the default engine.
func Compile(template string) *Pattern {
	return Default().Compile(template)
}

// Match decomposes input according to template and returns the captures.
// It returns a NoMatch error when input cannot be decomposed.
func Match(input, template string) (*Captures, error) {
	return Default().Match(input, template)
}

// MustMatch is like Match but panics if input does not match.
func MustMatch(input, template string) *Captures {
	return Default().MustMatch(input, template)
}

// Scan matches input and converts each capture into the matching destination.
func Scan(input, template string, dst ...any) error {
	return Default().Scan(input, template, dst...)
}

// MustScan is like Scan but panics on failure.
func MustScan(input, template string, dst ...any) {
	Default().MustScan(input, template, dst...)
}

// ParseAs matches input and converts each capture to the named type.
func ParseAs(input, template string, typeNames ...string) ([]any, error) {
	return Default().ParseAs(input, template, typeNames...)
}

// MustParseAs is like ParseAs but panics on failure.
func MustParseAs(input, template string, typeNames ...string) []any {
	return Default().MustParseAs(input, template, typeNames...)
}

// Unmarshal matches input and fills the exported fields of the struct v points to.
func Unmarshal(input, template string, v any) error {
	return Default().Unmarshal(input, template, v)
}

// MustUnmarshal is like Unmarshal but panics on failure.
func MustUnmarshal(input, template string, v any) {
	Default().MustUnmarshal(input, template, v)
}

// Values matches input and converts every capture to T.
func Values[T any](input, template string) ([]T, error) {
	return ValuesOf[T](Compile(template), input)
}

// MustValues is like Values but panics on failure.
func MustValues[T any](input, template string) []T {
	values, err := Values[T](input, template)
	if err != nil {
		panic(err)
	}
	return values
}
