package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/rangeread"
	"github.com/hupe1980/rangeread/resource"
	"github.com/hupe1980/rangeread/testutil"
)

type runConfig struct {
	backends    []string
	iterations  int
	ranges      int
	length      int
	gap         int
	skip        int
	flush       bool
	willneed    bool
	concurrency int
	verify      bool
	metricsAddr string
	memLimit    string
	ioLimit     string
}

// result summarizes one backend over all iterations.
type result struct {
	Backend  string
	Requests int
	Bytes    int64
	Elapsed  time.Duration
}

func (r result) String() string {
	rate := 0.0
	if r.Elapsed > 0 {
		rate = float64(r.Bytes) / r.Elapsed.Seconds()
	}
	return fmt.Sprintf("%s: %d requests, %s in %v (%s/s)",
		r.Backend, r.Requests, humanize.IBytes(uint64(r.Bytes)), r.Elapsed.Round(time.Microsecond), humanize.IBytes(uint64(rate)))
}

func newRunCmd(newLogger func() (*rangeread.Logger, error)) *cobra.Command {
	cfg := runConfig{}

	cmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Read the same workload shape with every backend and report throughput",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			results, err := bench(cmd.Context(), args[0], cfg, logger)
			for _, r := range results {
				fmt.Fprintln(cmd.OutOrStdout(), r)
			}
			return err
		},
	}

	cfg.bindFlags(cmd.Flags())
	return cmd
}

func (cfg *runConfig) bindFlags(flags *pflag.FlagSet) {
	flags.StringSliceVar(&cfg.backends, "backend", nil, "backends to run, in order (default: every available backend)")
	flags.IntVar(&cfg.iterations, "iterations", 10, "requests per backend")
	flags.IntVar(&cfg.ranges, "ranges", 200, "ranges per request")
	flags.IntVar(&cfg.length, "length", 64000, "length of every range in bytes")
	flags.IntVar(&cfg.gap, "gap", 4200, "bytes between consecutive ranges")
	flags.IntVar(&cfg.skip, "skip", 6800000, "bytes skipped between requests")
	flags.BoolVar(&cfg.flush, "flush", true, "drop the page cache of the file before each backend")
	flags.BoolVar(&cfg.willneed, "willneed", true, "issue a read-ahead hint over each request before reading it")
	flags.IntVar(&cfg.concurrency, "concurrency", 1, "requests in flight at once")
	flags.BoolVar(&cfg.verify, "verify", false, "compare every result against the sync backend")
	flags.StringVar(&cfg.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	flags.StringVar(&cfg.memLimit, "memory-limit", "", "cap on output buffer bytes in flight, e.g. 256MiB")
	flags.StringVar(&cfg.ioLimit, "io-limit", "", "cap on read bandwidth per second, e.g. 500MB")
}

func (cfg runConfig) controller() (*resource.Controller, error) {
	var rc resource.Config
	if cfg.memLimit != "" {
		n, err := humanize.ParseBytes(cfg.memLimit)
		if err != nil {
			return nil, fmt.Errorf("invalid --memory-limit %q: %w", cfg.memLimit, err)
		}
		rc.MemoryLimitBytes = int64(n)
	}
	if cfg.ioLimit != "" {
		n, err := humanize.ParseBytes(cfg.ioLimit)
		if err != nil {
			return nil, fmt.Errorf("invalid --io-limit %q: %w", cfg.ioLimit, err)
		}
		rc.IOLimitBytesPerSec = int64(n)
	}
	if cfg.concurrency > 0 {
		rc.MaxConcurrentReads = int64(cfg.concurrency)
	}
	return resource.NewController(rc), nil
}

func (cfg runConfig) selectBackends() ([]rangeread.Backend, error) {
	if len(cfg.backends) == 0 {
		return rangeread.Available(), nil
	}
	out := make([]rangeread.Backend, 0, len(cfg.backends))
	for _, name := range cfg.backends {
		b, err := rangeread.Lookup(name)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func bench(ctx context.Context, path string, cfg runConfig, logger *rangeread.Logger) ([]result, error) {
	if cfg.iterations <= 0 || cfg.ranges <= 0 || cfg.length < 0 || cfg.gap < 0 || cfg.skip < 0 {
		return nil, errors.New("--iterations and --ranges must be positive, --length, --gap and --skip not negative")
	}
	if cfg.concurrency <= 0 {
		cfg.concurrency = 1
	}

	backends, err := cfg.selectBackends()
	if err != nil {
		return nil, err
	}
	rc, err := cfg.controller()
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	workload := testutil.Workload{Ranges: cfg.ranges, Length: cfg.length, Gap: cfg.gap, Skip: cfg.skip}
	if need := workload.Extent(cfg.iterations) * uint64(len(backends)); need > uint64(info.Size()) {
		return nil, fmt.Errorf("%s holds %s, the workload needs %s (see rangebench gen --size)",
			path, humanize.IBytes(uint64(info.Size())), humanize.IBytes(need))
	}

	runID := uuid.New()
	logger = logger.WithFile(path)
	logger.InfoContext(ctx, "benchmark started", "run_id", runID.String(), "backends", len(backends))

	reg := prometheus.NewRegistry()
	metrics := newPromCollector(reg, runID.String())
	if cfg.metricsAddr != "" {
		stop, err := serveMetrics(cfg.metricsAddr, reg)
		if err != nil {
			return nil, err
		}
		defer stop()
	}

	var reference rangeread.Backend
	if cfg.verify {
		if reference, err = rangeread.Lookup("sync"); err != nil {
			return nil, err
		}
	}

	results := make([]result, 0, len(backends))
	for _, b := range backends {
		r := rangeread.NewReader(b,
			rangeread.WithLogger(logger),
			rangeread.WithMetricsCollector(metrics),
			rangeread.WithResourceController(rc),
			rangeread.WithPrefetch(cfg.willneed),
		)
		res, err := benchBackend(ctx, f, r, reference, &workload, cfg, logger.WithBackend(b.Name()))
		if err != nil {
			return results, fmt.Errorf("%s: %w", b.Name(), err)
		}
		results = append(results, res)
	}
	return results, nil
}

func benchBackend(ctx context.Context, f *os.File, r *rangeread.Reader, reference rangeread.Backend,
	workload *testutil.Workload, cfg runConfig, logger *rangeread.Logger,
) (result, error) {
	if cfg.flush {
		err := rangeread.Flush(f)
		logger.LogHint(ctx, "flush", 0, 0, err)
	}

	requests := make([][]testutil.Span, cfg.iterations)
	for i := range requests {
		requests[i] = workload.Next()
	}

	// Buffers travel back through the pool so each worker reuses its capacity.
	pool := make(chan rangeread.Buffer, cfg.concurrency)
	for range cfg.concurrency {
		pool <- rangeread.Buffer{}
	}

	totals := make([]int64, len(requests))
	completed := make([]bool, len(requests))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.concurrency)

	start := time.Now()
	for i, spans := range requests {
		g.Go(func() error {
			buf := <-pool
			buf.Ranges = buf.Ranges[:0]
			for _, s := range spans {
				buf.Add(s.Offset, s.Length)
			}

			out, err := r.ReadRanges(gctx, f, buf)
			defer func() { pool <- out }()
			if err != nil {
				return fmt.Errorf("request %d: %w", i, err)
			}

			totals[i] = int64(len(out.Buf))
			completed[i] = true

			if reference != nil {
				return verify(f, reference, out, i)
			}
			return nil
		})
	}
	err := g.Wait()
	elapsed := time.Since(start)

	// Logged outside the timed region.
	for i, spans := range requests {
		if !completed[i] {
			continue
		}
		first, last := spans[0], spans[len(spans)-1]
		logger.InfoContext(ctx, "request completed",
			"request", i,
			"bytes", totals[i],
			"range", last.End()-first.Offset,
		)
	}

	var total int64
	for _, n := range totals {
		total += n
	}
	return result{Backend: r.Backend().Name(), Requests: len(requests), Bytes: total, Elapsed: elapsed}, err
}

// verify reads the ranges of got with reference and compares digests.
func verify(f *os.File, reference rangeread.Backend, got rangeread.Buffer, request int) error {
	want, err := reference.ReadRanges(f, rangeread.Buffer{Ranges: got.Ranges})
	if err != nil {
		return fmt.Errorf("request %d: reference read: %w", request, err)
	}
	if xxhash.Sum64(got.Buf) != xxhash.Sum64(want.Buf) {
		return fmt.Errorf("request %d: output differs from %s (digest %016x, want %016x)",
			request, reference.Name(), xxhash.Sum64(got.Buf), xxhash.Sum64(want.Buf))
	}
	return nil
}

// serveMetrics exposes reg on addr until the returned function is called.
func serveMetrics(addr string, reg *prometheus.Registry) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintln(os.Stderr, "metrics server:", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
