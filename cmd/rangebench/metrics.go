package main

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/rangeread"
)

// promCollector implements rangeread.MetricsCollector with Prometheus
// instruments.
type promCollector struct {
	readLatency *prometheus.HistogramVec
	readBytes   *prometheus.CounterVec
	readRanges  *prometheus.CounterVec
	hints       *prometheus.CounterVec
}

var _ rangeread.MetricsCollector = (*promCollector)(nil)

func newPromCollector(reg prometheus.Registerer, runID string) *promCollector {
	labels := prometheus.Labels{"run_id": runID}

	c := &promCollector{
		readLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "rangeread_read_latency_seconds",
			Help:        "Latency of scatter reads",
			Buckets:     prometheus.ExponentialBuckets(0.0001, 2, 16),
			ConstLabels: labels,
		}, []string{"backend", "status"}),
		readBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "rangeread_read_bytes_total",
			Help:        "Bytes delivered by successful scatter reads",
			ConstLabels: labels,
		}, []string{"backend"}),
		readRanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "rangeread_read_ranges_total",
			Help:        "Ranges delivered by successful scatter reads",
			ConstLabels: labels,
		}, []string{"backend"}),
		hints: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "rangeread_hints_total",
			Help:        "Page cache hints issued",
			ConstLabels: labels,
		}, []string{"hint", "status"}),
	}

	reg.MustRegister(c.readLatency, c.readBytes, c.readRanges, c.hints)
	return c
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (c *promCollector) RecordRead(backend string, ranges, bytes int, d time.Duration, err error) {
	c.readLatency.WithLabelValues(backend, status(err)).Observe(d.Seconds())
	if err != nil {
		return
	}
	c.readBytes.WithLabelValues(backend).Add(float64(bytes))
	c.readRanges.WithLabelValues(backend).Add(float64(ranges))
}

func (c *promCollector) RecordHint(kind string, err error) {
	c.hints.WithLabelValues(kind, status(err)).Inc()
}
