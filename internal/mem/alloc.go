package mem

import (
	"os"
	"unsafe"
)

// PageSize is the system memory page size.
var PageSize = os.Getpagesize()

// AllocAligned allocates a byte slice of the given size whose first byte sits
// at an address divisible by align. align must be a power of two; values
// below 1 default to PageSize.
//
// Note: This function allocates slightly more memory than requested to ensure alignment.
// The underlying array is kept alive by the returned slice. The capacity of the
// returned slice equals its length.
func AllocAligned(size, align int) []byte {
	if size <= 0 {
		return nil
	}
	if align < 1 {
		align = PageSize
	}

	buf := make([]byte, size+align)

	ptr := unsafe.Pointer(&buf[0]) //nolint:gosec // unsafe is required for memory alignment
	addr := uintptr(ptr)
	offset := int((uintptr(align) - (addr & uintptr(align-1))) & uintptr(align-1))

	return buf[offset : offset+size : offset+size]
}

// IsAligned reports whether the first byte of b sits on an align boundary.
// Empty slices are always aligned.
func IsAligned(b []byte, align int) bool {
	if len(b) == 0 {
		return true
	}
	return uintptr(unsafe.Pointer(&b[0]))&uintptr(align-1) == 0 //nolint:gosec // address inspection only
}
