package rangeread

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus
// (cmd/rangebench ships one).
type MetricsCollector interface {
	// RecordRead is called after each Reader.ReadRanges call.
	// ranges and bytes describe the request, duration is the time spent in
	// the backend, err is nil if successful.
	RecordRead(backend string, ranges, bytes int, duration time.Duration, err error)

	// RecordHint is called after each page-cache hint issued by a Reader.
	RecordHint(kind string, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordRead(string, int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordHint(string, error)                          {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	ReadCount      atomic.Int64
	ReadErrors     atomic.Int64
	ReadRanges     atomic.Int64
	ReadBytes      atomic.Int64
	ReadTotalNanos atomic.Int64
	HintCount      atomic.Int64
	HintErrors     atomic.Int64
}

// RecordRead implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRead(_ string, ranges, bytes int, duration time.Duration, err error) {
	b.ReadCount.Add(1)
	b.ReadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ReadErrors.Add(1)
		return
	}
	b.ReadRanges.Add(int64(ranges))
	b.ReadBytes.Add(int64(bytes))
}

// RecordHint implements MetricsCollector.
func (b *BasicMetricsCollector) RecordHint(_ string, err error) {
	b.HintCount.Add(1)
	if err != nil {
		b.HintErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		ReadCount:    b.ReadCount.Load(),
		ReadErrors:   b.ReadErrors.Load(),
		ReadRanges:   b.ReadRanges.Load(),
		ReadBytes:    b.ReadBytes.Load(),
		ReadAvgNanos: b.getAvgReadNanos(),
		HintCount:    b.HintCount.Load(),
		HintErrors:   b.HintErrors.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgReadNanos() int64 {
	count := b.ReadCount.Load()
	if count == 0 {
		return 0
	}
	return b.ReadTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	ReadCount    int64
	ReadErrors   int64
	ReadRanges   int64
	ReadBytes    int64
	ReadAvgNanos int64
	HintCount    int64
	HintErrors   int64
}
