//go:build linux || freebsd

package rangeread

import (
	"os"
	"runtime"

	"golang.org/x/sys/unix"
)

// Flush asks the kernel to drop the cached pages of the whole file.
//
// Dirty pages are not written back first, so only clean pages are dropped.
func Flush(f File) error {
	info, err := f.Stat()
	if err != nil {
		return err
	}
	err = unix.Fadvise(int(f.Fd()), 0, info.Size(), unix.FADV_DONTNEED)
	runtime.KeepAlive(f)
	if err != nil {
		return os.NewSyscallError("fadvise", err)
	}
	return nil
}

// WillNeed asks the kernel to start reading [offset, offset+length) into the
// page cache. A length of 0 extends the hint to the end of the file.
func WillNeed(f File, offset uint64, length int) error {
	r := Range{Offset: offset, Length: length}
	if _, err := (&Buffer{Ranges: []Range{r}}).Size(); err != nil {
		return err
	}
	err := unix.Fadvise(int(f.Fd()), int64(offset), int64(length), unix.FADV_WILLNEED)
	runtime.KeepAlive(f)
	if err != nil {
		return os.NewSyscallError("fadvise", err)
	}
	return nil
}
