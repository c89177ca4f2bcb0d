// Package testutil provides testing utilities for rangeread.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating deterministic file contents and range
// patterns, and for computing the expected output of a scatter read.
//
// # File Contents
//
//	rng := testutil.NewRNG(seed)
//	data, err := rng.WriteFile(path, 10<<20)
//
// # Range Patterns
//
//	w := testutil.Workload{Ranges: 200, Length: 64000, Gap: 4200, Skip: 6800000}
//	spans := w.Next()
//	want := testutil.Expected(data, spans)
package testutil
