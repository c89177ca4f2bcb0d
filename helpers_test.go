package rangeread

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hupe1980/rangeread/testutil"
)

// openTestFile creates a file of size pseudo-random bytes and opens it.
func openTestFile(t *testing.T, size int) (*os.File, []byte) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "data")
	data, err := testutil.NewRNG(4711).WriteFile(path, size)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	return f, data
}

func bufferOf(spans []testutil.Span) Buffer {
	var buf Buffer
	for _, s := range spans {
		buf.Add(s.Offset, s.Length)
	}
	return buf
}

func spansOf(ranges ...Range) []testutil.Span {
	spans := make([]testutil.Span, len(ranges))
	for i, r := range ranges {
		spans[i] = testutil.Span{Offset: r.Offset, Length: r.Length}
	}
	return spans
}

// eachBackend runs fn as a subtest for every backend the running system can
// serve.
func eachBackend(t *testing.T, fn func(t *testing.T, b Backend)) {
	t.Helper()

	for _, b := range Available() {
		t.Run(b.Name(), func(t *testing.T) {
			fn(t, b)
		})
	}
}
