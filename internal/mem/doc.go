// Package mem provides memory allocation utilities.
//
// # Aligned Allocation
//
// Provides page-aligned byte buffers for kernel I/O. Read buffers handed to
// io_submit or lio_listio start on a page boundary, which keeps them usable
// with O_DIRECT file descriptors.
package mem
