package rangeread

import (
	"fmt"
	"io"
	"slices"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/rangeread/testutil"
)

func TestBackends_Registered(t *testing.T) {
	names := make([]string, 0)
	for _, b := range Backends() {
		names = append(names, b.Name())
	}
	assert.Contains(t, names, "sync")
	assert.NotEmpty(t, Available())
}

func TestBackends_MatchExpected(t *testing.T) {
	f, data := openTestFile(t, 1<<20)
	spans := testutil.NewRNG(99).Spans(300, uint64(len(data)), 20_000)
	want := testutil.Expected(data, spans)

	eachBackend(t, func(t *testing.T, b Backend) {
		out, err := b.ReadRanges(f, bufferOf(spans))
		require.NoError(t, err)
		assert.Equal(t, want, out.Buf)
	})
}

func TestBackends_TenMiBScenario(t *testing.T) {
	f, data := openTestFile(t, 10<<20)

	eachBackend(t, func(t *testing.T, b Backend) {
		var buf Buffer
		buf.Add(0, 100)
		buf.Add(1000, 200)
		buf.Add(5000, 50)

		out, err := b.ReadRanges(f, buf)
		require.NoError(t, err)
		require.Len(t, out.Buf, 350)
		assert.Equal(t, data[0:100], out.Buf[0:100])
		assert.Equal(t, data[1000:1200], out.Buf[100:300])
		assert.Equal(t, data[5000:5050], out.Buf[300:350])
	})
}

func TestBackends_PreserveOrder(t *testing.T) {
	f, data := openTestFile(t, 64<<10)
	w := testutil.Workload{Ranges: 20, Length: 1000, Gap: 500}
	spans := w.Next()
	slices.Reverse(spans)

	eachBackend(t, func(t *testing.T, b Backend) {
		out, err := b.ReadRanges(f, bufferOf(spans))
		require.NoError(t, err)
		assert.Equal(t, testutil.Expected(data, spans), out.Buf)
		assert.Equal(t, data[19*1500:19*1500+1000], out.Buf[:1000])
	})
}

func TestBackends_OverlappingRanges(t *testing.T) {
	f, data := openTestFile(t, 8192)
	spans := spansOf(Range{0, 100}, Range{50, 100}, Range{0, 100}, Range{4000, 300}, Range{4100, 50})

	eachBackend(t, func(t *testing.T, b Backend) {
		out, err := b.ReadRanges(f, bufferOf(spans))
		require.NoError(t, err)
		assert.Equal(t, testutil.Expected(data, spans), out.Buf)
	})
}

func TestBackends_ZeroRangesDoNoIO(t *testing.T) {
	f, _ := openTestFile(t, 4096)
	require.NoError(t, f.Close())

	eachBackend(t, func(t *testing.T, b Backend) {
		buf := Buffer{Buf: []byte("stale bytes")}

		out, err := b.ReadRanges(f, buf)
		require.NoError(t, err)
		assert.Empty(t, out.Buf)
		assert.Empty(t, out.Ranges)
	})
}

func TestBackends_ZeroLengthRanges(t *testing.T) {
	f, data := openTestFile(t, 4096)
	spans := spansOf(Range{10, 0}, Range{100, 20}, Range{1 << 40, 0}, Range{4096, 0}, Range{200, 5})

	eachBackend(t, func(t *testing.T, b Backend) {
		out, err := b.ReadRanges(f, bufferOf(spans))
		require.NoError(t, err)
		assert.Equal(t, testutil.Expected(data, spans[1:2]), out.Buf[:20])
		assert.Equal(t, data[200:205], out.Buf[20:])
	})
}

func TestBackends_ShortRead(t *testing.T) {
	f, _ := openTestFile(t, 4096)

	tests := []struct {
		name   string
		ranges []Range
	}{
		{name: "crosses end of file", ranges: []Range{{0, 10}, {4000, 200}}},
		{name: "starts at end of file", ranges: []Range{{4096, 1}}},
		{name: "far past end of file", ranges: []Range{{0, 10}, {1 << 30, 10}}},
	}

	eachBackend(t, func(t *testing.T, b Backend) {
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				out, err := b.ReadRanges(f, Buffer{Ranges: tt.ranges})
				require.ErrorIs(t, err, ErrShortRead)
				assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
				assert.Empty(t, out.Buf)

				var short *ShortReadError
				require.ErrorAs(t, err, &short)
				assert.Less(t, short.Got, short.Want)
			})
		}
	})
}

func TestBackends_NoStaleBytesOnFailure(t *testing.T) {
	f, _ := openTestFile(t, 4096)

	eachBackend(t, func(t *testing.T, b Backend) {
		stale := make([]byte, 8192)
		for i := range stale {
			stale[i] = 0xAA
		}
		buf := Buffer{Buf: stale[:0], Ranges: []Range{{0, 1000}, {2000, 1000}, {4000, 1000}}}

		out, err := b.ReadRanges(f, buf)
		require.Error(t, err)
		assert.Empty(t, out.Buf)
		assert.Equal(t, 8192, cap(out.Buf))
	})
}

func TestBackends_ClosedFile(t *testing.T) {
	f, _ := openTestFile(t, 4096)
	require.NoError(t, f.Close())

	eachBackend(t, func(t *testing.T, b Backend) {
		out, err := b.ReadRanges(f, Buffer{Ranges: []Range{{0, 10}}})
		require.Error(t, err)
		assert.Empty(t, out.Buf)
	})
}

func TestBackends_InvalidRange(t *testing.T) {
	f, _ := openTestFile(t, 4096)

	eachBackend(t, func(t *testing.T, b Backend) {
		out, err := b.ReadRanges(f, Buffer{Ranges: []Range{{0, 10}, {0, -5}}})
		require.ErrorIs(t, err, ErrInvalidRange)
		assert.Empty(t, out.Buf)
	})
}

func TestBackends_BufferReuse(t *testing.T) {
	f, data := openTestFile(t, 1<<20)

	eachBackend(t, func(t *testing.T, b Backend) {
		w := testutil.Workload{Ranges: 16, Length: 4000, Gap: 100, Skip: 10_000}

		out, err := b.ReadRanges(f, bufferOf(w.Next()))
		require.NoError(t, err)
		first := unsafe.SliceData(out.Buf)

		for range 5 {
			spans := w.Next()
			out.Ranges = out.Ranges[:0]
			for _, s := range spans {
				out.Add(s.Offset, s.Length)
			}

			out, err = b.ReadRanges(f, out)
			require.NoError(t, err)
			assert.Equal(t, testutil.Expected(data, spans), out.Buf)
			assert.Same(t, first, unsafe.SliceData(out.Buf))
		}
	})
}

func TestBackends_SharedFileHandle(t *testing.T) {
	f, data := openTestFile(t, 256<<10)

	eachBackend(t, func(t *testing.T, b Backend) {
		var g errgroup.Group
		for i := range 8 {
			g.Go(func() error {
				spans := testutil.NewRNG(int64(i)).Spans(64, uint64(len(data)), 8000)
				out, err := b.ReadRanges(f, bufferOf(spans))
				if err != nil {
					return err
				}
				if !slices.Equal(out.Buf, testutil.Expected(data, spans)) {
					return fmt.Errorf("worker %d: output mismatch", i)
				}
				return nil
			})
		}
		require.NoError(t, g.Wait())
	})
}
