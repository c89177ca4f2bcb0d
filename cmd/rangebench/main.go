// Rangebench compares the scatter-read backends of rangeread on one file.
//
// Usage:
//
//	rangebench gen data.bin --size 2GiB
//	rangebench run data.bin --backend aio --backend mmap --verify
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
