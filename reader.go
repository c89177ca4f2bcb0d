package rangeread

import (
	"context"
	"time"
)

// Reader binds a Backend to logging, metrics and admission control.
//
// Backends are silent and unconditional; a Reader is the place to observe and
// throttle them. A Reader is safe for concurrent use if its backend is.
type Reader struct {
	backend Backend
	opts    options
	logger  *Logger
}

// NewReader returns a Reader that reads with b.
func NewReader(b Backend, optFns ...Option) *Reader {
	opts := applyOptions(optFns)
	return &Reader{
		backend: b,
		opts:    opts,
		logger:  opts.logger.WithBackend(b.Name()),
	}
}

// Backend returns the backend the Reader reads with.
func (r *Reader) Backend() Backend {
	return r.backend
}

// ReadRanges reads the ranges of buf from f with the Reader's backend.
//
// ctx bounds admission only: once the backend has been called the read runs
// to completion. The result follows the Backend contract: on error Buf is
// empty.
func (r *Reader) ReadRanges(ctx context.Context, f File, buf Buffer) (Buffer, error) {
	size, err := buf.Size()
	if err != nil {
		buf.Buf = buf.Buf[:0]
		return buf, err
	}

	rc := r.opts.controller
	if err := rc.AcquireMemory(int64(size)); err != nil {
		buf.Buf = buf.Buf[:0]
		return buf, err
	}
	defer rc.ReleaseMemory(int64(size))

	if err := rc.AcquireRead(ctx); err != nil {
		buf.Buf = buf.Buf[:0]
		return buf, err
	}
	defer rc.ReleaseRead()

	if err := rc.AcquireIO(ctx, size); err != nil {
		buf.Buf = buf.Buf[:0]
		return buf, err
	}

	if r.opts.prefetch {
		r.prefetch(ctx, f, &buf)
	}

	start := time.Now()
	out, err := r.backend.ReadRanges(f, buf)
	elapsed := time.Since(start)

	r.opts.metricsCollector.RecordRead(r.backend.Name(), len(buf.Ranges), size, elapsed, err)
	r.logger.LogRead(ctx, len(buf.Ranges), size, elapsed, err)
	return out, err
}

func (r *Reader) prefetch(ctx context.Context, f File, buf *Buffer) {
	start, end, ok := buf.Span()
	if !ok {
		return
	}
	err := WillNeed(f, start, int(end-start))
	r.opts.metricsCollector.RecordHint("willneed", err)
	r.logger.LogHint(ctx, "willneed", start, int(end-start), err)
}
