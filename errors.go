package rangeread

import (
	"errors"
	"fmt"
	"io"
	"syscall"
)

var (
	// ErrShortRead is matched by every *ShortReadError.
	ErrShortRead = errors.New("rangeread: short read")

	// ErrUnknownCompletion is returned when the kernel reports a completion
	// that does not belong to an outstanding request of the current read.
	ErrUnknownCompletion = errors.New("rangeread: event for unknown request")

	// ErrInvalidRange is matched by every *RangeError.
	ErrInvalidRange = errors.New("rangeread: invalid range")

	// ErrMappingFault is returned when a mapped page could not be read, for
	// example because the file was truncated while it was being copied.
	ErrMappingFault = errors.New("rangeread: fault while copying mapped window")

	// ErrUnknownBackend is returned by Lookup for unregistered names.
	ErrUnknownBackend = errors.New("rangeread: unknown backend")

	// ErrClosed is returned by backends after Close.
	ErrClosed = errors.New("rangeread: backend closed")
)

// ShortReadError reports a range that delivered fewer bytes than requested,
// usually because it extends past the end of the file.
//
// It matches ErrShortRead and io.ErrUnexpectedEOF. If Errno is set (list-I/O
// reports short completions as EIO) it unwraps to Errno.
type ShortReadError struct {
	Offset uint64
	Want   int
	Got    int
	Errno  syscall.Errno
}

func (e *ShortReadError) Error() string {
	return fmt.Sprintf("rangeread: short read at offset %d: got %d of %d bytes", e.Offset, e.Got, e.Want)
}

func (e *ShortReadError) Is(target error) bool {
	return target == ErrShortRead || target == io.ErrUnexpectedEOF
}

func (e *ShortReadError) Unwrap() error {
	if e.Errno == 0 {
		return nil
	}
	return e.Errno
}

// RangeError reports a range that cannot be represented as a file read.
//
// It matches ErrInvalidRange.
type RangeError struct {
	Index  int
	Range  Range
	Reason string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("rangeread: invalid range %d (offset %d, length %d): %s", e.Index, e.Range.Offset, e.Range.Length, e.Reason)
}

func (e *RangeError) Is(target error) bool {
	return target == ErrInvalidRange
}

// MapError reports a covering window that could not be mapped.
//
// The original underlying error can be accessed via errors.Unwrap.
type MapError struct {
	Offset int64
	Length int
	cause  error
}

func (e *MapError) Error() string {
	return fmt.Sprintf("rangeread: mmap window [%d, %d): %v", e.Offset, e.Offset+int64(e.Length), e.cause)
}

func (e *MapError) Unwrap() error { return e.cause }
