//go:build linux

package rangeread

import (
	"errors"
	"fmt"
	"math"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"syscall"
	"unsafe"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sys/unix"

	"github.com/hupe1980/rangeread/internal/aio"
)

// DefaultQueueDepth is the default capacity of a kernel AIO context.
const DefaultQueueDepth = 256

// AIOOptions configures the Linux native-AIO backend.
type AIOOptions struct {
	// QueueDepth is the capacity of each kernel context and the largest
	// batch handed to io_submit at once. Defaults to DefaultQueueDepth.
	QueueDepth int

	// MaxIdleContexts bounds the contexts kept for reuse between reads.
	// Defaults to GOMAXPROCS.
	MaxIdleContexts int
}

// AIO reads ranges with Linux native asynchronous I/O.
//
// Every read checks out a kernel context for its whole duration, so all
// completions a context delivers belong to the read holding it. Contexts are
// created on first use and kept for reuse; Close destroys the idle ones.
type AIO struct {
	opts AIOOptions

	mu     sync.Mutex
	idle   []aio.Context
	closed bool

	live atomic.Int64
}

// NewAIO returns a native-AIO backend.
func NewAIO(optFns ...func(o *AIOOptions)) *AIO {
	opts := AIOOptions{
		QueueDepth:      DefaultQueueDepth,
		MaxIdleContexts: runtime.GOMAXPROCS(0),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}
	if opts.QueueDepth <= 0 {
		opts.QueueDepth = DefaultQueueDepth
	}
	if opts.MaxIdleContexts < 0 {
		opts.MaxIdleContexts = 0
	}
	return &AIO{opts: opts}
}

// Name implements Backend.
func (*AIO) Name() string { return "aio" }

// ReadRanges implements Backend.
func (a *AIO) ReadRanges(f File, buf Buffer) (Buffer, error) {
	return guarded(buf, func(dst []byte, ranges []Range) error {
		reqs := splitRequests(buildRequests(int(f.Fd()), ranges), aio.MaxRWCount)
		if uint64(len(reqs)) > math.MaxUint32 {
			return fmt.Errorf("rangeread: aio: %d requests exceed the request table", len(reqs))
		}

		ctx, err := a.get()
		if err != nil {
			return err
		}

		r := newAIORead(ctx, reqs, dst, a.opts.QueueDepth)
		err = r.run()
		if err != nil && !r.pending.IsEmpty() && r.drain() != nil {
			// io_destroy waits for whatever the kernel still owns.
			a.destroy(ctx)
		} else {
			a.put(ctx)
		}

		runtime.KeepAlive(f)
		runtime.KeepAlive(dst)
		return err
	})
}

// Contexts returns the number of kernel contexts alive and idle.
func (a *AIO) Contexts() (live, idle int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return int(a.live.Load()), len(a.idle)
}

// Close destroys the idle contexts. Reads started after Close fail with
// ErrClosed; contexts of reads still running are destroyed when they finish.
func (a *AIO) Close() error {
	a.mu.Lock()
	idle := a.idle
	a.idle = nil
	a.closed = true
	a.mu.Unlock()

	var errs []error
	for _, ctx := range idle {
		if err := ctx.Destroy(); err != nil {
			errs = append(errs, err)
		}
		a.live.Add(-1)
	}
	return errors.Join(errs...)
}

func (a *AIO) get() (aio.Context, error) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return 0, ErrClosed
	}
	if n := len(a.idle); n > 0 {
		ctx := a.idle[n-1]
		a.idle = a.idle[:n-1]
		a.mu.Unlock()
		return ctx, nil
	}
	a.mu.Unlock()

	ctx, err := aio.Setup(a.opts.QueueDepth)
	if err != nil {
		return 0, err
	}
	a.live.Add(1)
	return ctx, nil
}

func (a *AIO) put(ctx aio.Context) {
	a.mu.Lock()
	if !a.closed && len(a.idle) < a.opts.MaxIdleContexts {
		a.idle = append(a.idle, ctx)
		a.mu.Unlock()
		return
	}
	a.mu.Unlock()
	a.destroy(ctx)
}

func (a *AIO) destroy(ctx aio.Context) {
	_ = ctx.Destroy()
	a.live.Add(-1)
}

// aioRead is the state of one scatter read on one context.
type aioRead struct {
	ctx   aio.Context
	reqs  []request
	iocbs []aio.Iocb
	ptrs  []*aio.Iocb
	depth int

	// pending holds the indices of submitted requests not yet completed.
	pending *roaring.Bitmap
	events  []aio.Event
}

func newAIORead(ctx aio.Context, reqs []request, dst []byte, depth int) *aioRead {
	base := sliceAddr(dst)

	iocbs := make([]aio.Iocb, len(reqs))
	ptrs := make([]*aio.Iocb, len(reqs))
	for i, req := range reqs {
		// Token i+1 keeps zero free as "no request".
		iocbs[i] = aio.NewPread(uint64(i)+1, req.fd, req.offset, base+uintptr(req.dstOff), req.length)
		ptrs[i] = &iocbs[i]
	}

	return &aioRead{
		ctx:     ctx,
		reqs:    reqs,
		iocbs:   iocbs,
		ptrs:    ptrs,
		depth:   depth,
		pending: roaring.New(),
		events:  make([]aio.Event, min(depth, len(reqs))),
	}
}

func (r *aioRead) run() error {
	nr := len(r.ptrs)
	done := 0
	for done < nr {
		todo := min(nr-done, r.depth)
		n, err := r.ctx.Submit(r.ptrs[done : done+todo])
		if err != nil {
			return err
		}
		if n <= 0 {
			return os.NewSyscallError("io_submit", unix.EAGAIN)
		}
		r.pending.AddRange(uint64(done), uint64(done+n))

		if err := r.wait(n); err != nil {
			return err
		}
		done += n
	}
	return nil
}

// wait reaps n completions. Every reaped event is accounted for before the
// first error is returned, so pending stays exact for drain.
func (r *aioRead) wait(n int) error {
	var first error
	got := 0
	for got < n {
		m, err := r.ctx.GetEvents(n-got, r.events[got:n])
		if err != nil {
			return err
		}
		for _, ev := range r.events[got : got+m] {
			if err := r.complete(ev); err != nil && first == nil {
				first = err
			}
		}
		got += m
		if first != nil {
			return first
		}
	}
	return nil
}

func (r *aioRead) complete(ev aio.Event) error {
	if ev.Data == 0 || ev.Data > uint64(len(r.reqs)) {
		return ErrUnknownCompletion
	}
	i := int(ev.Data - 1)
	if ev.Obj != uint64(uintptr(unsafe.Pointer(r.ptrs[i]))) { //nolint:gosec // identity check only
		return ErrUnknownCompletion
	}
	if !r.pending.CheckedRemove(uint32(i)) {
		return ErrUnknownCompletion
	}

	req := r.reqs[i]
	if ev.Res < 0 {
		return os.NewSyscallError("pread", syscall.Errno(-ev.Res))
	}
	if ev.Res != int64(req.length) {
		return &ShortReadError{Offset: uint64(req.offset), Want: req.length, Got: int(ev.Res)}
	}
	return nil
}

// drain waits for every request the kernel still owns, so the context can be
// reused and the output buffer is no longer written to.
func (r *aioRead) drain() error {
	for !r.pending.IsEmpty() {
		n := int(r.pending.GetCardinality())
		m, err := r.ctx.GetEvents(n, r.events[:n])
		if err != nil {
			return err
		}
		before := r.pending.GetCardinality()
		for _, ev := range r.events[:m] {
			if ev.Data > 0 && ev.Data <= uint64(len(r.reqs)) {
				r.pending.Remove(uint32(ev.Data - 1))
			}
		}
		if r.pending.GetCardinality() == before {
			return ErrUnknownCompletion
		}
	}
	return nil
}

// Probe reports whether the running kernel allows native AIO.
func (*AIO) Probe() error {
	return aio.Probe()
}

func init() {
	Register(NewAIO())
}
