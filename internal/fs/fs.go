package fs

import (
	"io"
	"os"
)

// File represents an open file.
type File interface {
	io.ReaderAt
	Fd() uintptr
	Stat() (os.FileInfo, error)
}

var _ File = (*os.File)(nil)
