package eyes

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const followTimeout = 5 * time.Second

func receive(t *testing.T, ch <-chan LineResult) LineResult {
	t.Helper()
	select {
	case r, ok := <-ch:
		require.True(t, ok, "channel closed early")
		return r
	case <-time.After(followTimeout):
		t.Fatal("timed out waiting for line")
		return LineResult{}
	}
}

func appendFile(t *testing.T, path, data string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func TestPattern_Follow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.log")
	require.NoError(t, os.WriteFile(path, []byte("1 2,3\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := Compile("{} {},{}").Follow(ctx, path)
	require.NoError(t, err)

	first := receive(t, ch)
	assert.Equal(t, 1, first.Line)
	assert.Equal(t, []string{"1", "2", "3"}, first.Captures.Strings())

	// A partial line is held until its terminator is written.
	appendFile(t, path, "4 5")
	appendFile(t, path, ",6\r\nnoise\n")

	second := receive(t, ch)
	assert.Equal(t, 2, second.Line)
	assert.Equal(t, "4 5,6", second.Text)
	assert.Equal(t, []string{"4", "5", "6"}, second.Captures.Strings())

	third := receive(t, ch)
	assert.Equal(t, 3, third.Line)
	assert.True(t, IsNoMatch(third.Err))

	cancel()
	for range ch {
	}
}

func TestPattern_Follow_Truncation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rotate.log")
	require.NoError(t, os.WriteFile(path, []byte("a=1\nb=2\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := Compile("{}={}").Follow(ctx, path)
	require.NoError(t, err)

	receive(t, ch)
	receive(t, ch)

	require.NoError(t, os.WriteFile(path, []byte("c=3\n"), 0o644))

	r := receive(t, ch)
	assert.Equal(t, []string{"c", "3"}, r.Captures.Strings())
}

func TestPattern_Follow_Replaced(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.txt")
	require.NoError(t, os.WriteFile(path, []byte("1x1\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := Compile("{}x{}").Follow(ctx, path)
	require.NoError(t, err)

	first := receive(t, ch)
	assert.Equal(t, []string{"1", "1"}, first.Captures.Strings())

	// Atomic replace as done by editors and log rotation.
	tmp := path + ".tmp"
	require.NoError(t, os.WriteFile(tmp, []byte("2x2\n"), 0o644))
	require.NoError(t, os.Rename(tmp, path))

	second := receive(t, ch)
	assert.Equal(t, []string{"2", "2"}, second.Captures.Strings())

	appendFile(t, path, "3x3\n")
	third := receive(t, ch)
	assert.Equal(t, []string{"3", "3"}, third.Captures.Strings())
}

func TestPattern_Follow_ClosesOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "idle.log")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := Compile("{}").Follow(ctx, path)
	require.NoError(t, err)

	cancel()
	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(followTimeout):
		t.Fatal("channel not closed after cancel")
	}
}

func TestPattern_Follow_MissingFile(t *testing.T) {
	_, err := Compile("{}").Follow(context.Background(), filepath.Join(t.TempDir(), "missing.log"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgFollowFile)
}
