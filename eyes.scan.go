package eyes

import (
	"context"
	"errors"
	"reflect"

	"github.com/itsatony/go-eyes/internal"
	"go.uber.org/zap"
)

// Scan matches input and converts capture i into the value dst[i] points to.
//
// Supported destinations are the Go integer, float, string and bool kinds
// (including named types over them), time.Duration, any type implementing
// encoding.TextUnmarshaler, and types registered with WithType.
// The number of destinations must equal the placeholder count. Destinations
// are written only when every capture converts.
func (p *Pattern) Scan(input string, dst ...any) error {
	if len(dst) != p.tmpl.Placeholders {
		return NewArityError(p.source, p.tmpl.Placeholders, len(dst))
	}
	for i, d := range dst {
		rv := reflect.ValueOf(d)
		if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() {
			return NewInvalidTargetError(i, d)
		}
	}

	caps, err := p.Match(input)
	if err != nil {
		return err
	}

	targets := make([]reflect.Value, len(dst))
	for i, d := range dst {
		targets[i] = reflect.ValueOf(d).Elem()
	}
	return p.engine.assignAll(caps, targets)
}

// MustScan is like Scan but panics on failure.
func (p *Pattern) MustScan(input string, dst ...any) {
	if err := p.Scan(input, dst...); err != nil {
		panic(err)
	}
}

// ParseAs matches input and converts each capture using the type named at
// the same position. Type names are resolved before matching, so an unknown
// name fails even when the input would not match.
func (p *Pattern) ParseAs(input string, typeNames ...string) ([]any, error) {
	if len(typeNames) != p.tmpl.Placeholders {
		return nil, NewArityError(p.source, p.tmpl.Placeholders, len(typeNames))
	}

	defs, err := p.engine.lookupTypes(typeNames)
	if err != nil {
		return nil, err
	}

	caps, err := p.Match(input)
	if err != nil {
		return nil, err
	}

	values := make([]any, len(defs))
	for i, def := range defs {
		v, err := def.Convert(caps.At(i))
		if err != nil {
			return nil, p.engine.conversionFailed(i, caps.At(i), def.Name, err)
		}
		values[i] = v
	}
	return values, nil
}

// MustParseAs is like ParseAs but panics on failure.
func (p *Pattern) MustParseAs(input string, typeNames ...string) []any {
	values, err := p.ParseAs(input, typeNames...)
	if err != nil {
		panic(err)
	}
	return values
}

// Scan is a convenience method that compiles and scans in one step.
func (e *Engine) Scan(input, template string, dst ...any) error {
	return e.Compile(template).Scan(input, dst...)
}

// MustScan is like Scan but panics on failure.
func (e *Engine) MustScan(input, template string, dst ...any) {
	e.Compile(template).MustScan(input, dst...)
}

// ParseAs is a convenience method that compiles and parses in one step.
func (e *Engine) ParseAs(input, template string, typeNames ...string) ([]any, error) {
	return e.Compile(template).ParseAs(input, typeNames...)
}

// MustParseAs is like ParseAs but panics on failure.
func (e *Engine) MustParseAs(input, template string, typeNames ...string) []any {
	return e.Compile(template).MustParseAs(input, typeNames...)
}

// ValuesOf matches input against p and converts every capture to T.
func ValuesOf[T any](p *Pattern, input string) ([]T, error) {
	caps, err := p.Match(input)
	if err != nil {
		return nil, err
	}

	values := make([]T, caps.Len())
	for i := range values {
		if err := p.engine.assign(i, caps.At(i), reflect.ValueOf(&values[i]).Elem()); err != nil {
			return nil, err
		}
	}
	return values, nil
}

// lookupTypes resolves type names against the engine's type table.
func (e *Engine) lookupTypes(names []string) ([]*internal.TypeDef, error) {
	defs := make([]*internal.TypeDef, len(names))
	for i, name := range names {
		def, ok := e.types.Lookup(name)
		if !ok {
			return nil, NewUnsupportedTypeError(name, e.TypeNames()...)
		}
		defs[i] = def
	}
	return defs, nil
}

// assign converts capture s into v and maps registry errors onto public ones.
func (e *Engine) assign(index int, s string, v reflect.Value) error {
	err := e.types.AssignValue(s, v)
	if err == nil {
		return nil
	}

	var typeErr *internal.TypeError
	if errors.As(err, &typeErr) && typeErr.Message == internal.ErrMsgUnsupportedTarget {
		return NewUnsupportedTypeError(typeErr.TypeName)
	}
	return e.conversionFailed(index, s, v.Type().String(), err)
}

// assignAll converts every capture into a temporary and stores the results in
// targets only when all conversions succeed.
func (e *Engine) assignAll(caps *Captures, targets []reflect.Value) error {
	staged := make([]reflect.Value, len(targets))
	for i, target := range targets {
		staged[i] = reflect.New(target.Type()).Elem()
		if err := e.assign(i, caps.At(i), staged[i]); err != nil {
			return err
		}
	}
	for i, target := range targets {
		target.Set(staged[i])
	}
	return nil
}

// conversionFailed logs, records and wraps a conversion failure.
func (e *Engine) conversionFailed(index int, s, typeName string, cause error) error {
	e.logger.Debug(LogMsgConversionFailed,
		zap.Int(LogFieldIndex, index),
		zap.String(LogFieldType, typeName),
		zap.Error(cause))
	e.metrics.RecordConversionError(context.Background(), typeName)
	return NewConversionError(index, s, typeName, cause)
}
