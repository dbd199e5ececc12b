package eyes

import (
	"errors"
	"net/netip"
	"reflect"
	"testing"
	"time"

	"github.com/itsatony/go-cuserr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type celsius float64

func TestScan(t *testing.T) {
	t.Run("claim", func(t *testing.T) {
		var id uint
		var x, y int
		var w, h uint
		require.NoError(t, Scan("#1 @ 338,764: 20x24", "#{} @ {},{}: {}x{}", &id, &x, &y, &w, &h))
		assert.Equal(t, uint(1), id)
		assert.Equal(t, 338, x)
		assert.Equal(t, 764, y)
		assert.Equal(t, uint(20), w)
		assert.Equal(t, uint(24), h)
	})

	t.Run("mixed kinds", func(t *testing.T) {
		var name string
		var ok bool
		var ratio float64
		var temp celsius
		var d time.Duration
		require.NoError(t, Scan("job=build ok=true ratio=0.5 temp=21.5 took=1m30s",
			"job={} ok={} ratio={} temp={} took={}", &name, &ok, &ratio, &temp, &d))
		assert.Equal(t, "build", name)
		assert.True(t, ok)
		assert.Equal(t, 0.5, ratio)
		assert.Equal(t, celsius(21.5), temp)
		assert.Equal(t, 90*time.Second, d)
	})

	t.Run("text unmarshaler", func(t *testing.T) {
		var addr netip.Addr
		var port uint16
		require.NoError(t, Scan("10.0.0.1:8080", "{}:{}", &addr, &port))
		assert.Equal(t, netip.MustParseAddr("10.0.0.1"), addr)
		assert.Equal(t, uint16(8080), port)
	})

	t.Run("empty capture into string", func(t *testing.T) {
		var a, b string
		require.NoError(t, Scan("=x", "{}={}", &a, &b))
		assert.Equal(t, "", a)
		assert.Equal(t, "x", b)
	})

	t.Run("arity mismatch", func(t *testing.T) {
		var a int
		err := Scan("1 2", "{} {}", &a)
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgArityMismatch)
	})

	t.Run("non pointer target", func(t *testing.T) {
		var a int
		err := Scan("1 2", "{} {}", &a, 5)
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgInvalidTarget)

		var customErr *cuserr.CustomError
		require.True(t, errors.As(err, &customErr))
		index, ok := customErr.GetMetadata(MetaKeyIndex)
		assert.True(t, ok)
		assert.Equal(t, "1", index)
	})

	t.Run("nil pointer target", func(t *testing.T) {
		var p *int
		err := Scan("1", "{}", p)
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgInvalidTarget)
	})

	t.Run("no match", func(t *testing.T) {
		var a, b int
		err := Scan("1-2", "{} {}", &a, &b)
		require.Error(t, err)
		assert.True(t, IsNoMatch(err))
	})

	t.Run("out of range", func(t *testing.T) {
		var a, b, c uint8
		err := Scan("1 300,3", "{} {},{}", &a, &b, &c)
		require.Error(t, err)
		assert.True(t, IsConversionError(err))

		var convErr *ConversionError
		require.True(t, errors.As(err, &convErr))
		assert.Equal(t, 1, convErr.Index)
		assert.Equal(t, "300", convErr.Value)
		assert.Equal(t, "uint8", convErr.Type)
	})

	t.Run("negative into unsigned", func(t *testing.T) {
		var a uint
		err := Scan("-1", "{}", &a)
		require.Error(t, err)
		assert.True(t, IsConversionError(err))
	})

	t.Run("unsupported target", func(t *testing.T) {
		var m map[string]int
		err := Scan("x", "{}", &m)
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgUnsupportedType)
		assert.False(t, IsConversionError(err))
	})

	t.Run("must scan panics", func(t *testing.T) {
		var a int
		assert.Panics(t, func() { MustScan("x", "{}", &a) })
	})
}

func TestScan_DestinationsUntouchedOnFailure(t *testing.T) {
	a, b, c := uint8(7), uint8(7), uint8(7)
	err := Scan("1 2,300", "{} {},{}", &a, &b, &c)
	require.Error(t, err)
	assert.True(t, IsConversionError(err))
	assert.Equal(t, []uint8{7, 7, 7}, []uint8{a, b, c})

	require.NoError(t, Scan("1 2,3", "{} {},{}", &a, &b, &c))
	assert.Equal(t, []uint8{1, 2, 3}, []uint8{a, b, c})
}

func TestScan_ConverterWithoutValue(t *testing.T) {
	e := MustNew(WithType(&TypeDef{
		Name:    "celsius",
		GoType:  reflect.TypeOf(celsius(0)),
		Convert: func(string) (any, error) { return nil, nil },
	}))

	temp := celsius(1)
	err := e.Scan("t=20", "t={}", &temp)
	require.Error(t, err)
	assert.True(t, IsConversionError(err))
	assert.Equal(t, celsius(1), temp)
}

func TestParseAs(t *testing.T) {
	t.Run("usize and isize", func(t *testing.T) {
		vals, err := ParseAs("#1 @ 338,764: 20x24", "#{} @ {},{}: {}x{}", "usize", "isize", "isize", "usize", "usize")
		require.NoError(t, err)
		assert.Equal(t, []any{uint(1), 338, 764, uint(20), uint(24)}, vals)
	})

	t.Run("u8 sandbox", func(t *testing.T) {
		vals, err := ParseAs("1 2,3", "{} {},{}", "u8", "u8", "u8")
		require.NoError(t, err)
		assert.Equal(t, []any{uint8(1), uint8(2), uint8(3)}, vals)
	})

	t.Run("strings and floats", func(t *testing.T) {
		vals, err := ParseAs("#lol @ 338,7643: 20.2x24.5", "#{} @ {},{}: {}x{}", "String", "i32", "i32", "f64", "f32")
		require.NoError(t, err)
		assert.Equal(t, []any{"lol", int32(338), int32(7643), 20.2, float32(24.5)}, vals)
	})

	t.Run("unknown type fails before matching", func(t *testing.T) {
		_, err := ParseAs("does not match", "{}-{}", "u8", "complex128")
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgUnsupportedType)
		assert.False(t, IsNoMatch(err))
	})

	t.Run("arity", func(t *testing.T) {
		_, err := ParseAs("1 2", "{} {}", "u8")
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgArityMismatch)
	})

	t.Run("conversion failure", func(t *testing.T) {
		_, err := ParseAs("1 a", "{} {}", "u8", "u8")
		require.Error(t, err)

		var convErr *ConversionError
		require.True(t, errors.As(err, &convErr))
		assert.Equal(t, 1, convErr.Index)
		assert.Equal(t, "a", convErr.Value)
		assert.Equal(t, "uint8", convErr.Type)
	})

	t.Run("must parse panics", func(t *testing.T) {
		assert.Panics(t, func() { MustParseAs("x", "{}", "u8") })
		assert.Equal(t, []any{uint8(4)}, MustParseAs("4", "{}", "u8"))
	})
}

func TestUnmarshal(t *testing.T) {
	type claim struct {
		ID            uint
		X, Y          int
		Width, Height uint
	}

	t.Run("struct fields in order", func(t *testing.T) {
		var c claim
		require.NoError(t, Unmarshal("#1 @ 338,764: 20x24", "#{} @ {},{}: {}x{}", &c))
		assert.Equal(t, claim{ID: 1, X: 338, Y: 764, Width: 20, Height: 24}, c)
	})

	t.Run("skipped and unexported fields", func(t *testing.T) {
		type instruction struct {
			Action  string
			Raw     string `eyes:"-"`
			x1, y1  int
			X1, Y1  int
			X2, Y2  int
			Comment string `eyes:"-"`
		}

		var in instruction
		require.NoError(t, Unmarshal("turn off 660,55 through 986,197", "{} {},{} through {},{}", &in))
		assert.Equal(t, "turn off", in.Action)
		assert.Equal(t, 660, in.X1)
		assert.Equal(t, 55, in.Y1)
		assert.Equal(t, 986, in.X2)
		assert.Equal(t, 197, in.Y2)
		assert.Empty(t, in.Raw)
		assert.Zero(t, in.x1)
	})

	t.Run("not a struct pointer", func(t *testing.T) {
		var n int
		for _, target := range []any{nil, claim{}, &n, (*claim)(nil)} {
			err := Unmarshal("1", "{}", target)
			require.Error(t, err)
			assert.Contains(t, err.Error(), ErrMsgInvalidStruct)
		}
	})

	t.Run("field count mismatch", func(t *testing.T) {
		var c claim
		err := Unmarshal("1x2", "{}x{}", &c)
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgArityMismatch)
	})

	t.Run("conversion failure names field type", func(t *testing.T) {
		var c claim
		err := Unmarshal("#1 @ -338,764: 20x-24", "#{} @ {},{}: {}x{}", &c)
		require.Error(t, err)

		var convErr *ConversionError
		require.True(t, errors.As(err, &convErr))
		assert.Equal(t, 4, convErr.Index)
		assert.Equal(t, "uint", convErr.Type)
	})

	t.Run("struct untouched on conversion failure", func(t *testing.T) {
		c := claim{ID: 9, X: 9, Y: 9, Width: 9, Height: 9}
		err := Unmarshal("#1 @ 2,3: 4x-5", "#{} @ {},{}: {}x{}", &c)
		require.Error(t, err)
		assert.Equal(t, claim{ID: 9, X: 9, Y: 9, Width: 9, Height: 9}, c)
	})

	t.Run("must unmarshal panics", func(t *testing.T) {
		var c claim
		assert.Panics(t, func() { MustUnmarshal("nope", "#{}", &c) })
	})
}
