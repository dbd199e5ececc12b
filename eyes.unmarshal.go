package eyes

import (
	"reflect"
)

// Unmarshal matches input and stores capture i in the i-th exported field of
// the struct v points to. Fields tagged `eyes:"-"` are skipped. The number of
// remaining fields must equal the placeholder count. The struct is left
// untouched unless every capture converts.
//
//	type Claim struct {
//	    ID            uint
//	    X, Y          int
//	    Width, Height uint
//	}
//	var c Claim
//	err := eyes.Unmarshal("#1 @ 338,764: 20x24", "#{} @ {},{}: {}x{}", &c)
func (p *Pattern) Unmarshal(input string, v any) error {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return NewInvalidStructError(v)
	}

	fields := targetFields(rv.Elem())
	if len(fields) != p.tmpl.Placeholders {
		return NewArityError(p.source, p.tmpl.Placeholders, len(fields))
	}

	caps, err := p.Match(input)
	if err != nil {
		return err
	}

	return p.engine.assignAll(caps, fields)
}

// MustUnmarshal is like Unmarshal but panics on failure.
func (p *Pattern) MustUnmarshal(input string, v any) {
	if err := p.Unmarshal(input, v); err != nil {
		panic(err)
	}
}

// Unmarshal is a convenience method that compiles and unmarshals in one step.
func (e *Engine) Unmarshal(input, template string, v any) error {
	return e.Compile(template).Unmarshal(input, v)
}

// MustUnmarshal is like Unmarshal but panics on failure.
func (e *Engine) MustUnmarshal(input, template string, v any) {
	e.Compile(template).MustUnmarshal(input, v)
}

// targetFields returns the settable fields of a struct value in declaration order.
func targetFields(v reflect.Value) []reflect.Value {
	t := v.Type()
	fields := make([]reflect.Value, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() || sf.Tag.Get(StructTagName) == StructTagSkip {
			continue
		}
		fields = append(fields, v.Field(i))
	}
	return fields
}
