package internal

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func lookupTypes(t *testing.T, r *TypeRegistry, names ...string) []*TypeDef {
	t.Helper()
	defs := make([]*TypeDef, len(names))
	for i, name := range names {
		def, ok := r.Lookup(name)
		require.True(t, ok, name)
		defs[i] = def
	}
	return defs
}

func TestGenerator_Render(t *testing.T) {
	r := newBuiltinRegistry(t)
	g := NewGenerator(nil, zap.NewNop())

	var buf bytes.Buffer
	err := g.Render(GenConfig{
		Package:  "claims",
		Name:     "claim",
		Template: "#{} @ {},{}: {}x{}",
		Types:    lookupTypes(t, r, "usize", "isize", "isize", "usize", "usize"),
		Fields:   []string{"id", "x", "y", "width", "height"},
	}, &buf)
	require.NoError(t, err)

	src := buf.String()
	assert.Contains(t, src, GeneratedHeader)
	assert.Contains(t, src, "package claims")
	assert.Contains(t, src, ModulePath)
	assert.Contains(t, src, "type Claim struct")
	assert.Contains(t, src, `var claimPattern = eyes.Compile("#{} @ {},{}: {}x{}")`)
	assert.Contains(t, src, "func ParseClaim(input string) (Claim, error)")
	assert.Contains(t, src, "claimPattern.Scan(input, &v.ID, &v.X, &v.Y, &v.Width, &v.Height)")
	assert.Contains(t, src, "func MustParseClaim(input string) Claim")
	assert.Contains(t, src, "panic(err)")
}

func TestGenerator_DefaultFieldsAndImports(t *testing.T) {
	r := newBuiltinRegistry(t)
	g := NewGenerator(nil, nil)

	var buf bytes.Buffer
	err := g.Render(GenConfig{
		Package:  "timing",
		Name:     "Step",
		Template: "{} took {}",
		Types:    lookupTypes(t, r, "string", TypeNameDuration),
	}, &buf)
	require.NoError(t, err)

	src := buf.String()
	assert.Contains(t, src, `"time"`)
	assert.Contains(t, src, "time.Duration")
	assert.Contains(t, src, "stepPattern.Scan(input, &v.Field1, &v.Field2)")
}

func TestGenerator_Errors(t *testing.T) {
	r := newBuiltinRegistry(t)
	g := NewGenerator(nil, nil)
	two := lookupTypes(t, r, "int", "int")

	tests := []struct {
		name     string
		cfg      GenConfig
		expected string
	}{
		{
			name:     "missing package",
			cfg:      GenConfig{Name: "P", Template: "{},{}", Types: two},
			expected: ErrMsgCodegenEmptyPackage,
		},
		{
			name:     "missing name",
			cfg:      GenConfig{Package: "p", Template: "{},{}", Types: two},
			expected: ErrMsgCodegenEmptyName,
		},
		{
			name:     "type arity",
			cfg:      GenConfig{Package: "p", Name: "P", Template: "{},{},{}", Types: two},
			expected: ErrMsgCodegenArity,
		},
		{
			name:     "field arity",
			cfg:      GenConfig{Package: "p", Name: "P", Template: "{},{}", Types: two, Fields: []string{"a"}},
			expected: ErrMsgCodegenFieldArity,
		},
		{
			name:     "invalid field",
			cfg:      GenConfig{Package: "p", Name: "P", Template: "{},{}", Types: two, Fields: []string{"a", "b-c"}},
			expected: ErrMsgCodegenInvalidField,
		},
		{
			name:     "duplicate field",
			cfg:      GenConfig{Package: "p", Name: "P", Template: "{},{}", Types: two, Fields: []string{"a", "A"}},
			expected: ErrMsgCodegenDuplicateName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.Generate(tt.cfg)
			require.Error(t, err)
			var typeErr *TypeError
			require.True(t, errors.As(err, &typeErr))
			assert.Equal(t, tt.expected, typeErr.Message)
		})
	}
}

func TestExportName(t *testing.T) {
	assert.Equal(t, "ID", exportName("id"))
	assert.Equal(t, "Width", exportName("width"))
	assert.Equal(t, "Übung", exportName("übung"))
	assert.Equal(t, "", exportName(""))
	assert.Equal(t, "claim", lowerFirst("Claim"))
}
