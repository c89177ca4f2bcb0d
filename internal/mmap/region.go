package mmap

// Region is the part of a window that holds one file range. It borrows the
// window's memory and reads nothing once the window is closed.
type Region struct {
	parent *Mapping
	start  int // index into parent.data
	size   int
}

// RegionAt returns the region holding the file bytes
// [fileOffset, fileOffset+size). The range must lie inside the window.
func (m *Mapping) RegionAt(fileOffset int64, size int) (*Region, error) {
	if m.closed.Load() {
		return nil, ErrClosed
	}
	start := fileOffset - m.offset
	if start < 0 || size < 0 || start+int64(size) > int64(len(m.data)) {
		return nil, ErrOutOfBounds
	}
	return &Region{parent: m, start: int(start), size: size}, nil
}

// FileOffset returns the file offset of the first byte of the region.
func (r *Region) FileOffset() int64 {
	return r.parent.offset + int64(r.start)
}

// Len returns the length of the region in bytes.
func (r *Region) Len() int {
	return r.size
}

// Bytes returns the mapped bytes of the region, or nil after the window is
// closed. The slice must not be used after Close.
func (r *Region) Bytes() []byte {
	if r.parent.closed.Load() {
		return nil
	}
	return r.parent.data[r.start : r.start+r.size]
}

// CopyTo copies the region into dst and returns the number of bytes copied.
// It copies min(len(dst), Len()) bytes, or nothing after the window is
// closed.
//
// Reading a page that the file no longer backs raises SIGBUS; see the
// package documentation.
func (r *Region) CopyTo(dst []byte) int {
	return copy(dst, r.Bytes())
}

// Advise applies an access hint to the pages covering the region.
func (r *Region) Advise(pattern AccessPattern) error {
	if r.parent.closed.Load() {
		return ErrClosed
	}
	return osAdvise(r.parent.data[r.start:r.start+r.size], pattern)
}
