package mmap

import (
	"os"
	"sync/atomic"
)

var pageSize = int64(os.Getpagesize())

// Mapping represents a read-only memory-mapped window of a file.
// It owns the underlying mapping and is responsible for unmapping it.
type Mapping struct {
	// raw is the page-aligned mapping as returned by the kernel.
	raw []byte
	// data is raw without the alignment prefix.
	data   []byte
	offset int64
	closed atomic.Bool
	// unmap is the platform-specific function to unmap the memory.
	unmap func([]byte) error
}

// MapRange maps length bytes of the file behind fd, starting at offset.
// The mapping does not keep fd open; the caller may close the file while the
// mapping is alive.
func MapRange(fd int, offset int64, length int) (*Mapping, error) {
	if offset < 0 {
		return nil, ErrInvalidOffset
	}
	if length <= 0 {
		return nil, ErrInvalidSize
	}

	aligned := offset &^ (pageSize - 1)
	prefix := int(offset - aligned)

	raw, unmapFunc, err := osMap(fd, aligned, prefix+length)
	if err != nil {
		return nil, err
	}

	return &Mapping{
		raw:    raw,
		data:   raw[prefix : prefix+length],
		offset: offset,
		unmap:  unmapFunc,
	}, nil
}

// Close unmaps the memory. It is idempotent.
func (m *Mapping) Close() error {
	if m.closed.Swap(true) {
		return nil // Already closed
	}
	if m.unmap != nil && m.raw != nil {
		return m.unmap(m.raw)
	}
	return nil
}

// Bytes returns the mapped window, starting at the requested offset.
// Warning: The slice is valid only until Close() is called.
// Accessing the slice after Close() results in undefined behavior (likely a crash).
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Offset returns the file offset of Bytes()[0].
func (m *Mapping) Offset() int64 {
	return m.offset
}

// Size returns the size of the window in bytes.
func (m *Mapping) Size() int {
	return len(m.data)
}

// Advise provides hints to the kernel about how the memory will be accessed.
func (m *Mapping) Advise(pattern AccessPattern) error {
	if m.closed.Load() {
		return ErrClosed
	}
	return osAdvise(m.raw, pattern)
}
