//go:build linux || freebsd

package rangeread

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlush(t *testing.T) {
	f, _ := openTestFile(t, 64<<10)
	require.NoError(t, Flush(f))
}

func TestWillNeed(t *testing.T) {
	f, _ := openTestFile(t, 64<<10)

	require.NoError(t, WillNeed(f, 0, 4096))
	require.NoError(t, WillNeed(f, 1000, 0), "zero length covers the rest of the file")
	require.NoError(t, WillNeed(f, 1<<40, 10), "past the end of the file")
}

func TestWillNeed_InvalidRange(t *testing.T) {
	f, _ := openTestFile(t, 4096)

	assert.ErrorIs(t, WillNeed(f, 0, -1), ErrInvalidRange)
	assert.ErrorIs(t, WillNeed(f, math.MaxUint64, 1), ErrInvalidRange)
}

func TestHints_ClosedFile(t *testing.T) {
	f, _ := openTestFile(t, 4096)
	require.NoError(t, f.Close())

	assert.Error(t, Flush(f))
	assert.Error(t, WillNeed(f, 0, 10))
}
