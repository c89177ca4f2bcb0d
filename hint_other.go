//go:build !linux && !freebsd

package rangeread

import "errors"

// Flush is not supported on this platform.
func Flush(File) error {
	return errors.ErrUnsupported
}

// WillNeed is not supported on this platform.
func WillNeed(File, uint64, int) error {
	return errors.ErrUnsupported
}
