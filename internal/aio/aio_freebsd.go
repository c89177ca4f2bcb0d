//go:build freebsd && (amd64 || arm64)

package aio

import (
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// lio_listio opcodes and modes.
const (
	LioNop   = 0x0
	LioWrite = 0x1
	LioRead  = 0x2

	LioNowait = 0x0
	LioWait   = 0x1
)

// MaxListIO is the default AIO_LISTIO_MAX.
const MaxListIO = 16

// Aiocb mirrors struct aiocb on LP64 FreeBSD.
type Aiocb struct {
	Fildes    int32
	_         int32
	Offset    int64
	Buf       uintptr
	Nbytes    uint64
	_         [2]int32
	_         uintptr
	LioOpcode int32
	Reqprio   int32
	_         [3]int64 // struct __aiocb_private
	_         [80]byte // struct sigevent
}

// NewRead returns a LIO_READ control block for length bytes at offset of fd
// into the memory at addr.
func NewRead(fd int, offset int64, addr uintptr, length int) Aiocb {
	var cb Aiocb
	cb.Fildes = int32(fd)
	cb.Offset = offset
	cb.Buf = addr
	cb.Nbytes = uint64(length)
	cb.LioOpcode = LioRead
	return cb
}

// ListIO submits list with lio_listio. In LioWait mode the call returns once
// every request has completed.
func ListIO(mode int, list []*Aiocb) error {
	if len(list) == 0 {
		return nil
	}
	_, _, errno := unix.Syscall6(unix.SYS_LIO_LISTIO, uintptr(mode), uintptr(unsafe.Pointer(&list[0])), uintptr(len(list)), 0, 0, 0)
	if errno != 0 {
		return errno
	}
	return nil
}

// Return reaps a completed request and returns its byte count. A failed
// request reports its errno.
func Return(cb *Aiocb) (int, error) {
	n, _, errno := unix.Syscall(unix.SYS_AIO_RETURN, uintptr(unsafe.Pointer(cb)), 0, 0)
	if errno != 0 {
		return 0, os.NewSyscallError("aio_return", errno)
	}
	return int(int64(n)), nil
}

// Probe reports whether the running kernel allows list I/O.
func Probe() error {
	cb := NewRead(-1, 0, 0, 0)
	err := ListIO(LioWait, []*Aiocb{&cb})
	_, _ = Return(&cb)
	if err == unix.ENOSYS {
		return os.NewSyscallError("lio_listio", err)
	}
	return nil
}
