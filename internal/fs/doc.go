// Package fs provides the file abstraction used for testability and fault injection.
//
// The package defines one key interface:
//
//   - [File]: an open, readable file with positional reads and a descriptor
//
// *os.File satisfies File.
//
// # Fault Injection
//
// [FaultyFile] wraps a File and injects errors or short reads into ReadAt:
//
//	ff := fs.NewFaultyFile(f, fs.Fault{FailAfterReads: 1})
//	// the second and later ReadAt calls fail with fs.ErrInjected
//
// Faults only apply to ReadAt. Backends that hand Fd() to the kernel (mmap,
// AIO, list-I/O) bypass the wrapper; exercise their failure paths with real
// kernel errors (offsets past EOF, closed descriptors) instead.
//
// # Design Notes
//
// This package intentionally does NOT include context.Context parameters.
// Positional reads are non-interruptible at the syscall level.
package fs
