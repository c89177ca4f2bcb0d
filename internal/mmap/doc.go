// Package mmap provides read-only memory-mapped windows over open files.
//
// # Overview
//
// A window maps an arbitrary byte span [offset, offset+length) of a file.
// mmap(2) requires the file offset to be page aligned, so the package maps
// from the page boundary at or below offset and hides the alignment prefix:
// Bytes()[0] is always the byte at offset.
//
// # Usage
//
//	m, err := mmap.MapRange(int(f.Fd()), offset, length)
//	if err != nil { ... }
//	defer m.Close()
//
//	// Provide kernel hints for access patterns
//	_ = m.Advise(mmap.AccessSequential)
//
//	// Copy one file range out of the window
//	r, _ := m.RegionAt(fileOffset, n)
//	r.CopyTo(dst)
//
// # Platform Support
//
// Unix only (Linux, macOS, BSD). Uses mmap(2) with madvise(2) for access hints.
//
// # Thread Safety
//
// Mapping and Region are safe for concurrent read access. The Close() method
// is idempotent and protected by atomic operations. However, callers must
// ensure no goroutines access Bytes() after Close() returns.
//
// # Faults
//
// Touching a mapped page past the end of the file raises SIGBUS. Callers that
// cannot rule out concurrent truncation should copy under
// debug.SetPanicOnFault and recover.
package mmap
