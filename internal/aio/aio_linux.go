//go:build linux

package aio

import (
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// CmdPread is IOCB_CMD_PREAD.
const CmdPread = 0

// MaxRWCount is the largest byte count one read transfers (MAX_RW_COUNT).
// Longer requests complete short.
const MaxRWCount = 0x7ffff000

// Context is a kernel AIO context handle (aio_context_t).
type Context uintptr

// Iocb mirrors struct iocb. Key and RwFlags are swapped on big-endian
// kernels; both are always zero here, so one layout serves every arch.
type Iocb struct {
	Data      uint64 // returned unchanged in Event.Data
	Key       uint32
	RwFlags   int32
	Opcode    uint16
	Reqprio   int16
	Fildes    uint32
	Buf       uint64
	Nbytes    uint64
	Offset    int64
	Reserved2 uint64
	Flags     uint32
	Resfd     uint32
}

// Event mirrors struct io_event.
type Event struct {
	Data uint64 // Iocb.Data of the completed request
	Obj  uint64 // address of the completed Iocb
	Res  int64  // bytes transferred, or -errno
	Res2 int64
}

// NewPread returns a control block reading length bytes at offset of fd
// into the memory at addr. token is echoed back in Event.Data.
func NewPread(token uint64, fd int, offset int64, addr uintptr, length int) Iocb {
	var cb Iocb
	cb.Data = token
	cb.Opcode = CmdPread
	cb.Fildes = uint32(fd)
	cb.Buf = uint64(addr)
	cb.Nbytes = uint64(length)
	cb.Offset = offset
	return cb
}

// Setup creates a context able to hold nr outstanding requests.
func Setup(nr int) (Context, error) {
	var ctx Context
	_, _, errno := unix.Syscall(unix.SYS_IO_SETUP, uintptr(nr), uintptr(unsafe.Pointer(&ctx)), 0)
	if errno != 0 {
		return 0, os.NewSyscallError("io_setup", errno)
	}
	return ctx, nil
}

// Submit queues the given control blocks and returns how many the kernel
// accepted, which may be fewer than len(iocbs).
func (c Context) Submit(iocbs []*Iocb) (int, error) {
	if len(iocbs) == 0 {
		return 0, nil
	}
	n, _, errno := unix.Syscall(unix.SYS_IO_SUBMIT, uintptr(c), uintptr(len(iocbs)), uintptr(unsafe.Pointer(&iocbs[0])))
	if errno != 0 {
		return 0, os.NewSyscallError("io_submit", errno)
	}
	return int(n), nil
}

// GetEvents blocks until at least minNr completions are available and stores
// up to len(events) of them. There is no timeout. EINTR is retried.
func (c Context) GetEvents(minNr int, events []Event) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}
	for {
		n, _, errno := unix.Syscall6(unix.SYS_IO_GETEVENTS, uintptr(c), uintptr(minNr), uintptr(len(events)),
			uintptr(unsafe.Pointer(&events[0])), 0, 0)
		if errno == unix.EINTR {
			continue
		}
		if errno != 0 {
			return 0, os.NewSyscallError("io_getevents", errno)
		}
		return int(n), nil
	}
}

// Destroy cancels outstanding requests, waits for them and releases the
// context.
func (c Context) Destroy() error {
	_, _, errno := unix.Syscall(unix.SYS_IO_DESTROY, uintptr(c), 0, 0)
	if errno != 0 {
		return os.NewSyscallError("io_destroy", errno)
	}
	return nil
}

// Probe reports whether the running kernel allows native AIO.
func Probe() error {
	ctx, err := Setup(1)
	if err != nil {
		return err
	}
	return ctx.Destroy()
}
