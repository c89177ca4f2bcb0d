//go:build freebsd && (amd64 || arm64)

package rangeread

import (
	"errors"
	"os"
	"runtime"

	"golang.org/x/sys/unix"

	"github.com/hupe1980/rangeread/internal/aio"
)

// ListIOOptions configures the list-I/O backend.
type ListIOOptions struct {
	// BatchSize is the number of control blocks per lio_listio call.
	// Defaults to AIO_LISTIO_MAX (16).
	BatchSize int
}

// ListIO reads ranges with POSIX list I/O in blocking mode: each batch is
// submitted with lio_listio(LIO_WAIT), which returns once every request of
// the batch has completed.
type ListIO struct {
	opts ListIOOptions
}

// NewListIO returns the list-I/O backend.
func NewListIO(optFns ...func(o *ListIOOptions)) *ListIO {
	opts := ListIOOptions{BatchSize: aio.MaxListIO}
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = aio.MaxListIO
	}
	return &ListIO{opts: opts}
}

// Name implements Backend.
func (*ListIO) Name() string { return "listio" }

// Probe reports whether the running kernel allows list I/O.
func (*ListIO) Probe() error {
	return aio.Probe()
}

// ReadRanges implements Backend.
func (l *ListIO) ReadRanges(f File, buf Buffer) (Buffer, error) {
	return guarded(buf, func(dst []byte, ranges []Range) error {
		reqs := buildRequests(int(f.Fd()), ranges)
		base := sliceAddr(dst)

		batch := min(l.opts.BatchSize, len(reqs))
		cbs := make([]aio.Aiocb, batch)
		ptrs := make([]*aio.Aiocb, batch)

		for done := 0; done < len(reqs); {
			todo := min(len(reqs)-done, batch)
			part := reqs[done : done+todo]
			for i, req := range part {
				cbs[i] = aio.NewRead(req.fd, req.offset, base+uintptr(req.dstOff), req.length)
				ptrs[i] = &cbs[i]
			}

			err := aio.ListIO(aio.LioWait, ptrs[:todo])
			if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) || errors.Is(err, unix.EIO) {
				// Finished jobs count against the per-process AIO limit
				// until aio_return collects them.
				_ = reap(ptrs[:todo], part)
				return os.NewSyscallError("lio_listio", err)
			}

			if err := reap(ptrs[:todo], part); err != nil {
				return err
			}
			done += todo
		}

		runtime.KeepAlive(f)
		runtime.KeepAlive(dst)
		return nil
	})
}

// reap collects the result of every control block of a batch and returns
// the first failure.
func reap(cbs []*aio.Aiocb, reqs []request) error {
	var first error
	for i, req := range reqs {
		n, err := aio.Return(cbs[i])
		if first != nil {
			continue
		}
		switch {
		case err != nil:
			first = err
		case n != req.length:
			first = &ShortReadError{Offset: uint64(req.offset), Want: req.length, Got: n, Errno: unix.EIO}
		}
	}
	return first
}

func init() {
	Register(NewListIO())
}
