// Package aio exposes the kernel asynchronous I/O interfaces used by the
// scatter-read backends.
//
// Linux: native AIO (io_setup, io_submit, io_getevents, io_destroy) with
// [Iocb] and [Event] mirroring <linux/aio_abi.h>.
//
// FreeBSD (amd64, arm64): POSIX list I/O (lio_listio, aio_return) with
// [Aiocb] mirroring <aio.h>.
//
// Control blocks store buffer addresses as integers the garbage collector
// cannot see. Callers must keep every buffer referenced by a submitted block
// alive (runtime.KeepAlive) until its completion has been reaped, and must
// only use heap memory.
package aio
