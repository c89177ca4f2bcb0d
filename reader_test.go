package rangeread

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/rangeread/resource"
)

func TestReader_ReadRanges(t *testing.T) {
	f, data := openTestFile(t, 64<<10)

	var logs bytes.Buffer
	metrics := &BasicMetricsCollector{}
	r := NewReader(NewSync(),
		WithLogger(NewLogger(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))),
		WithMetricsCollector(metrics),
		WithPrefetch(true),
	)
	assert.Equal(t, "sync", r.Backend().Name())

	out, err := r.ReadRanges(context.Background(), f, Buffer{Ranges: []Range{{100, 10}, {0, 5}}})
	require.NoError(t, err)
	assert.Equal(t, append(append([]byte{}, data[100:110]...), data[:5]...), out.Buf)

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.ReadCount)
	assert.Equal(t, int64(2), stats.ReadRanges)
	assert.Equal(t, int64(15), stats.ReadBytes)
	assert.Equal(t, int64(1), stats.HintCount)

	assert.Contains(t, logs.String(), `"msg":"read completed"`)
	assert.Contains(t, logs.String(), `"backend":"sync"`)
	assert.Contains(t, logs.String(), `"hint":"willneed"`)
}

func TestReader_FailedReadIsRecorded(t *testing.T) {
	f, _ := openTestFile(t, 4096)

	var logs bytes.Buffer
	metrics := &BasicMetricsCollector{}
	r := NewReader(NewSync(),
		WithLogger(NewLogger(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))),
		WithMetricsCollector(metrics),
	)

	out, err := r.ReadRanges(context.Background(), f, Buffer{Ranges: []Range{{4000, 200}}})
	require.ErrorIs(t, err, ErrShortRead)
	assert.Empty(t, out.Buf)

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.ReadErrors)
	assert.Zero(t, stats.ReadBytes)
	assert.Zero(t, stats.HintCount)
	assert.Contains(t, logs.String(), "read failed")
}

func TestReader_MemoryLimit(t *testing.T) {
	f, _ := openTestFile(t, 4096)
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 100})
	r := NewReader(NewSync(), WithResourceController(rc))

	out, err := r.ReadRanges(context.Background(), f, Buffer{Buf: []byte("stale"), Ranges: []Range{{0, 101}}})
	require.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)
	assert.Empty(t, out.Buf)

	_, err = r.ReadRanges(context.Background(), f, Buffer{Ranges: []Range{{0, 100}}})
	require.NoError(t, err)
	assert.Zero(t, rc.MemoryUsage(), "memory is released after the read")
	assert.Zero(t, rc.InFlight())
}

func TestReader_AdmissionHonorsContext(t *testing.T) {
	f, _ := openTestFile(t, 4096)
	rc := resource.NewController(resource.Config{MaxConcurrentReads: 1})
	require.True(t, rc.TryAcquireRead())
	defer rc.ReleaseRead()

	r := NewReader(NewSync(), WithResourceController(rc))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := r.ReadRanges(ctx, f, Buffer{Ranges: []Range{{0, 10}}})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Zero(t, rc.MemoryUsage())
}

func TestReader_InvalidRange(t *testing.T) {
	f, _ := openTestFile(t, 4096)
	r := NewReader(NewSync(), WithLogger(nil), WithMetricsCollector(nil))

	_, err := r.ReadRanges(context.Background(), f, Buffer{Ranges: []Range{{0, -1}}})
	require.ErrorIs(t, err, ErrInvalidRange)
}
