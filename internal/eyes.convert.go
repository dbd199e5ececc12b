package internal

import (
	"encoding"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ConvertFunc converts a captured substring into a typed value
type ConvertFunc func(s string) (any, error)

// TypeDef describes a conversion target that can be requested by name
type TypeDef struct {
	Name       string       // Canonical name, e.g. "int64"
	GoType     reflect.Type // Type produced by Convert
	GoName     string       // Identifier used in generated code, e.g. "Duration"
	ImportPath string       // Package of GoName, empty for predeclared types
	Convert    ConvertFunc
}

// TypeRegistry maps type names and Go types to converters.
// It is thread-safe for concurrent read/write access.
type TypeRegistry struct {
	byName map[string]*TypeDef
	byType map[reflect.Type]*TypeDef
	mu     sync.RWMutex
	logger *zap.Logger
}

// NewTypeRegistry creates an empty type registry
func NewTypeRegistry(logger *zap.Logger) *TypeRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TypeRegistry{
		byName: make(map[string]*TypeDef),
		byType: make(map[reflect.Type]*TypeDef),
		logger: logger,
	}
}

// Register adds a type under its canonical name and any aliases.
// Names are first-come-wins; a collision returns an error and leaves the
// existing entry in place.
func (r *TypeRegistry) Register(def *TypeDef, aliases ...string) error {
	if def == nil || def.Convert == nil {
		return NewTypeError(ErrMsgNilConverter, "")
	}
	if def.Name == "" {
		return NewTypeError(ErrMsgEmptyTypeName, "")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	names := append([]string{def.Name}, aliases...)
	for _, name := range names {
		if _, exists := r.byName[name]; exists {
			r.logger.Warn(LogMsgTypeCollision, zap.String(LogFieldTypeName, name))
			return NewTypeError(ErrMsgTypeExists, name)
		}
	}

	for _, name := range names {
		r.byName[name] = def
	}
	if def.GoType != nil {
		if _, exists := r.byType[def.GoType]; !exists {
			r.byType[def.GoType] = def
		}
	}

	r.logger.Debug(LogMsgTypeRegistered, zap.String(LogFieldTypeName, def.Name))
	return nil
}

// MustRegister adds a type and panics on error
func (r *TypeRegistry) MustRegister(def *TypeDef, aliases ...string) {
	if err := r.Register(def, aliases...); err != nil {
		panic(err)
	}
}

// Lookup finds a type by canonical name or alias
func (r *TypeRegistry) Lookup(name string) (*TypeDef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.byName[name]
	return def, ok
}

// LookupType finds the type registered for a Go type
func (r *TypeRegistry) LookupType(t reflect.Type) (*TypeDef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.byType[t]
	return def, ok
}

// Names returns all registered names and aliases in sorted order
func (r *TypeRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Convert converts s using the type registered under name
func (r *TypeRegistry) Convert(name, s string) (any, error) {
	def, ok := r.Lookup(name)
	if !ok {
		return nil, NewTypeError(ErrMsgUnknownTypeName, name)
	}
	return def.Convert(s)
}

// Assign parses s into the value dst points to.
// Resolution order: registered Go type, encoding.TextUnmarshaler, then the
// destination's kind.
func (r *TypeRegistry) Assign(s string, dst any) error {
	rv := reflect.ValueOf(dst)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() {
		return NewTypeError(ErrMsgNilTarget, fmt.Sprintf("%T", dst))
	}
	return r.AssignValue(s, rv.Elem())
}

// AssignValue parses s into an addressable value
func (r *TypeRegistry) AssignValue(s string, v reflect.Value) error {
	if def, ok := r.LookupType(v.Type()); ok {
		val, err := def.Convert(s)
		if err != nil {
			return err
		}
		converted := reflect.ValueOf(val)
		if !converted.IsValid() {
			return NewTypeError(ErrMsgNilConversion, def.Name)
		}
		if converted.Type() != v.Type() {
			if !converted.Type().ConvertibleTo(v.Type()) {
				return NewTypeError(ErrMsgUnsupportedTarget, v.Type().String())
			}
			converted = converted.Convert(v.Type())
		}
		v.Set(converted)
		return nil
	}

	if v.CanAddr() {
		if u, ok := v.Addr().Interface().(encoding.TextUnmarshaler); ok {
			return u.UnmarshalText([]byte(s))
		}
	}

	return assignKind(s, v)
}

// assignKind parses s according to the kind of v
func assignKind(s string, v reflect.Value) error {
	switch v.Kind() {
	case reflect.String:
		v.SetString(s)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, IntBase10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := strconv.ParseUint(s, IntBase10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetFloat(f)
	default:
		return NewTypeError(ErrMsgUnsupportedTarget, v.Type().String())
	}
	return nil
}

// kindConverter builds a ConvertFunc that produces values of type t
func kindConverter(t reflect.Type) ConvertFunc {
	return func(s string) (any, error) {
		v := reflect.New(t).Elem()
		if err := assignKind(s, v); err != nil {
			return nil, err
		}
		return v.Interface(), nil
	}
}

// builtinType declares a predeclared Go type with its aliases
type builtinType struct {
	sample  any
	aliases []string
}

// builtinTypes lists the predeclared targets. Aliases cover the short
// numeric spellings (u8, usize, f64, ...) used in type lists.
var builtinTypes = []builtinType{
	{sample: "", aliases: []string{"String", "str"}},
	{sample: false},
	{sample: int(0), aliases: []string{"isize"}},
	{sample: int8(0), aliases: []string{"i8"}},
	{sample: int16(0), aliases: []string{"i16"}},
	{sample: int32(0), aliases: []string{"i32"}},
	{sample: int64(0), aliases: []string{"i64"}},
	{sample: uint(0), aliases: []string{"usize"}},
	{sample: uint8(0), aliases: []string{"u8", "byte"}},
	{sample: uint16(0), aliases: []string{"u16"}},
	{sample: uint32(0), aliases: []string{"u32"}},
	{sample: uint64(0), aliases: []string{"u64"}},
	{sample: float32(0), aliases: []string{"f32"}},
	{sample: float64(0), aliases: []string{"f64"}},
}

// RegisterBuiltinTypes registers the predeclared scalar types and time.Duration
func RegisterBuiltinTypes(r *TypeRegistry) {
	for _, b := range builtinTypes {
		t := reflect.TypeOf(b.sample)
		r.MustRegister(&TypeDef{
			Name:    t.Name(),
			GoType:  t,
			GoName:  t.Name(),
			Convert: kindConverter(t),
		}, b.aliases...)
	}

	r.MustRegister(&TypeDef{
		Name:       TypeNameDuration,
		GoType:     reflect.TypeOf(time.Duration(0)),
		GoName:     "Duration",
		ImportPath: "time",
		Convert: func(s string) (any, error) {
			return time.ParseDuration(s)
		},
	}, TypeAliasDuration)
}

// TypeError represents a type registry or conversion target error
type TypeError struct {
	Message  string
	TypeName string
}

// NewTypeError creates a new type error
func NewTypeError(message, typeName string) *TypeError {
	return &TypeError{
		Message:  message,
		TypeName: typeName,
	}
}

// Error implements the error interface
func (e *TypeError) Error() string {
	if e.TypeName != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.TypeName)
	}
	return e.Message
}
