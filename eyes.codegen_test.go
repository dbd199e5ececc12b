package eyes

import (
	"bytes"
	"net/netip"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Generate(t *testing.T) {
	e := MustNew()

	var buf bytes.Buffer
	err := e.Generate(GenerateConfig{
		Package:  "sandbox",
		Name:     "Point",
		Template: "{} {},{}",
		Types:    []string{"u8", "u8", "u8"},
		Fields:   []string{"z", "x", "y"},
	}, &buf)
	require.NoError(t, err)

	src := buf.String()
	assert.Contains(t, src, "package sandbox")
	assert.Contains(t, src, "type Point struct")
	assert.Contains(t, src, "uint8")
	assert.Contains(t, src, "func ParsePoint(input string) (Point, error)")
	assert.Contains(t, src, "pointPattern.Scan(input, &v.Z, &v.X, &v.Y)")
}

func TestEngine_Generate_RegisteredType(t *testing.T) {
	e := MustNew(WithType(&TypeDef{
		Name:   "ip",
		GoType: reflect.TypeOf(netip.Addr{}),
		Convert: func(s string) (any, error) {
			return netip.ParseAddr(s)
		},
	}))

	var buf bytes.Buffer
	require.NoError(t, e.Generate(GenerateConfig{
		Package:  "net",
		Name:     "Peer",
		Template: "{}:{}",
		Types:    []string{"ip", "u16"},
		Fields:   []string{"addr", "port"},
	}, &buf))

	src := buf.String()
	assert.Contains(t, src, `"net/netip"`)
	assert.Contains(t, src, "netip.Addr")
}

func TestEngine_Generate_Errors(t *testing.T) {
	e := MustNew(WithType(&TypeDef{
		Name:    "anon",
		Convert: func(s string) (any, error) { return s, nil },
	}))

	t.Run("unknown type", func(t *testing.T) {
		err := e.Generate(GenerateConfig{Package: "p", Name: "T", Template: "{}", Types: []string{"nope"}}, &bytes.Buffer{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgUnsupportedType)
	})

	t.Run("type without go name", func(t *testing.T) {
		err := e.Generate(GenerateConfig{Package: "p", Name: "T", Template: "{}", Types: []string{"anon"}}, &bytes.Buffer{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgCodegenUnnamedType)
	})

	t.Run("arity", func(t *testing.T) {
		err := e.Generate(GenerateConfig{Package: "p", Name: "T", Template: "{}x{}", Types: []string{"u8"}}, &bytes.Buffer{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgCodegenFailed)
	})
}
