package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFillDeterministic(t *testing.T) {
	a := NewRNG(4711).Bytes(1000)
	b := NewRNG(4711).Bytes(1000)
	c := NewRNG(42).Bytes(1000)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	v1 := rng.Bytes(13)

	rng.Reset()
	v2 := rng.Bytes(13)

	assert.Equal(t, v1, v2)
	assert.Equal(t, int64(4711), rng.Seed())
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data")

	data, err := NewRNG(1).WriteFile(path, 4097)
	require.NoError(t, err)

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, data, onDisk)
}

func TestSpans(t *testing.T) {
	spans := NewRNG(7).Spans(500, 10_000, 300)

	require.Len(t, spans, 500)
	empty := 0
	for _, s := range spans {
		assert.LessOrEqual(t, s.End(), uint64(10_000))
		assert.LessOrEqual(t, s.Length, 300)
		if s.Length == 0 {
			empty++
		}
	}
	assert.Positive(t, empty)
}

func TestExpected(t *testing.T) {
	data := []byte("0123456789")

	got := Expected(data, []Span{{Offset: 8, Length: 2}, {Offset: 0, Length: 3}, {Offset: 5, Length: 0}, {Offset: 1, Length: 2}})

	assert.Equal(t, []byte("8901212"), got)
}

func TestWorkload(t *testing.T) {
	w := Workload{Ranges: 3, Length: 10, Gap: 5, Skip: 100}

	first := w.Next()
	assert.Equal(t, []Span{{0, 10}, {15, 10}, {30, 10}}, first)
	assert.Equal(t, uint64(145), w.Offset)

	second := w.Next()
	assert.Equal(t, uint64(145), second[0].Offset)

	assert.Equal(t, uint64(290), Workload{Ranges: 3, Length: 10, Gap: 5, Skip: 100}.Extent(2))
}
