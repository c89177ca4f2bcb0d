package fs

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T, content string) *os.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "faulty.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestFaultyFile_NoFault(t *testing.T) {
	f := openTemp(t, "hello world")
	ff := NewFaultyFile(f, NoFault)

	buf := make([]byte, 5)
	n, err := ff.ReadAt(buf, 6)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "world", string(buf))
	assert.Equal(t, int64(1), ff.Reads())

	// Delegation
	assert.Equal(t, f.Fd(), ff.Fd())
	info, err := ff.Stat()
	require.NoError(t, err)
	assert.Equal(t, int64(11), info.Size())
}

func TestFaultyFile_FailAfterReads(t *testing.T) {
	f := openTemp(t, "hello world")
	ff := NewFaultyFile(f, Fault{FailAfterReads: 1, FailAtOffset: -1})

	buf := make([]byte, 5)
	_, err := ff.ReadAt(buf, 0)
	require.NoError(t, err)

	n, err := ff.ReadAt(buf, 0)
	assert.ErrorIs(t, err, ErrInjected)
	assert.Equal(t, 0, n)
}

func TestFaultyFile_FailAtOffset(t *testing.T) {
	f := openTemp(t, "hello world")
	custom := errors.New("disk on fire")
	ff := NewFaultyFile(f, Fault{FailAfterReads: -1, FailAtOffset: 7, Err: custom})

	buf := make([]byte, 3)
	_, err := ff.ReadAt(buf, 0)
	require.NoError(t, err)

	_, err = ff.ReadAt(buf, 5)
	assert.ErrorIs(t, err, custom)

	// Span [8,11) does not contain 7.
	_, err = ff.ReadAt(buf, 8)
	require.NoError(t, err)
}

func TestFaultyFile_ShortRead(t *testing.T) {
	f := openTemp(t, "hello world")
	ff := NewFaultyFile(f, Fault{FailAfterReads: 0, FailAtOffset: -1, ShortRead: true})

	buf := make([]byte, 10)
	n, err := ff.ReadAt(buf, 0)
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", string(buf[:n]))
}

func TestFaultyFile_SetFault(t *testing.T) {
	f := openTemp(t, "abc")
	ff := NewFaultyFile(f, Fault{FailAfterReads: 0, FailAtOffset: -1})

	_, err := ff.ReadAt(make([]byte, 1), 0)
	require.Error(t, err)

	ff.SetFault(NoFault)
	assert.Equal(t, int64(0), ff.Reads())
	_, err = ff.ReadAt(make([]byte, 1), 0)
	require.NoError(t, err)
}
