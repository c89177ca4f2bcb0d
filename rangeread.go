package rangeread

import (
	"io"
	"math"
	"os"
)

// Range is a contiguous byte span of a file.
type Range struct {
	Offset uint64
	Length int
}

// End returns the offset one past the last byte of the range.
func (r Range) End() uint64 {
	return r.Offset + uint64(r.Length)
}

// Buffer is a scatter-read request together with its result.
//
// Ranges is the input: the spans to read, in output order. Buf is the output:
// after a successful read it holds the bytes of every range concatenated in
// range order; after a failed read it is empty. Ranges may be unsorted,
// overlapping or zero-length; they are read exactly as given.
//
// A Buffer returned by a read can be passed back in with new ranges to reuse
// the capacity of Buf.
type Buffer struct {
	Buf    []byte
	Ranges []Range
}

// Add appends a range to the request.
func (b *Buffer) Add(offset uint64, length int) {
	b.Ranges = append(b.Ranges, Range{Offset: offset, Length: length})
}

// Reset drops ranges and data but keeps the allocated capacity.
func (b *Buffer) Reset() {
	b.Buf = b.Buf[:0]
	b.Ranges = b.Ranges[:0]
}

// Size returns the sum of all range lengths, the length of Buf after a
// successful read.
//
// A range is invalid if its length is negative or its end does not fit a
// signed 64-bit file offset.
func (b *Buffer) Size() (int, error) {
	total := 0
	for i, r := range b.Ranges {
		if r.Length < 0 {
			return 0, &RangeError{Index: i, Range: r, Reason: "negative length"}
		}
		if r.Offset > math.MaxInt64-uint64(r.Length) {
			return 0, &RangeError{Index: i, Range: r, Reason: "end beyond maximum file offset"}
		}
		if total > math.MaxInt-r.Length {
			return 0, &RangeError{Index: i, Range: r, Reason: "total size overflows"}
		}
		total += r.Length
	}
	return total, nil
}

// Span returns the covering window of all non-empty ranges: the lowest
// offset and the highest end. ok is false when no range has a length.
func (b *Buffer) Span() (start, end uint64, ok bool) {
	for _, r := range b.Ranges {
		if r.Length == 0 {
			continue
		}
		if !ok || r.Offset < start {
			start = r.Offset
		}
		if !ok || r.End() > end {
			end = r.End()
		}
		ok = true
	}
	return start, end, ok
}

// File is an open, readable file. *os.File satisfies File.
type File interface {
	io.ReaderAt
	Fd() uintptr
	Stat() (os.FileInfo, error)
}

var _ File = (*os.File)(nil)

// Backend is one scatter-read strategy.
//
// ReadRanges blocks until every range has been read or the first error
// occurs. On success the returned Buffer holds Size() bytes; on error its Buf
// is empty. Implementations never retry and never log.
type Backend interface {
	Name() string
	ReadRanges(f File, buf Buffer) (Buffer, error)
}
