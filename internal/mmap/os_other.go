//go:build !unix

package mmap

import "errors"

func osMap(int, int64, int) ([]byte, func([]byte) error, error) {
	return nil, nil, errors.ErrUnsupported
}

func osAdvise([]byte, AccessPattern) error {
	return nil
}
