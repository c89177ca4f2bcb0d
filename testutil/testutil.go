package testutil

import (
	"math/rand"
	"os"
	"sync"
)

// Span is a byte range of a file.
type Span struct {
	Offset uint64
	Length int
}

// End returns the offset one past the last byte of the span.
func (s Span) End() uint64 {
	return s.Offset + uint64(s.Length)
}

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Fill fills dst with pseudo-random bytes.
// Locks only once per call.
func (r *RNG) Fill(dst []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := 0; i < len(dst); i += 8 {
		v := r.rand.Uint64()
		for j := i; j < len(dst) && j < i+8; j++ {
			dst[j] = byte(v)
			v >>= 8
		}
	}
}

// Bytes returns n pseudo-random bytes.
func (r *RNG) Bytes(n int) []byte {
	b := make([]byte, n)
	r.Fill(b)
	return b
}

// WriteFile creates path with size pseudo-random bytes and returns them.
func (r *RNG) WriteFile(path string, size int) ([]byte, error) {
	data := r.Bytes(size)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return nil, err
	}
	return data, nil
}

// Spans returns n random spans inside a file of fileSize bytes, each at most
// maxLen long. The spans are unsorted and may overlap; about one in eight is
// empty.
func (r *RNG) Spans(n int, fileSize uint64, maxLen int) []Span {
	r.mu.Lock()
	defer r.mu.Unlock()

	spans := make([]Span, n)
	for i := range spans {
		off := uint64(r.rand.Int63n(int64(fileSize)))
		length := 0
		if r.rand.Intn(8) != 0 {
			length = 1 + r.rand.Intn(maxLen)
		}
		if off+uint64(length) > fileSize {
			length = int(fileSize - off)
		}
		spans[i] = Span{Offset: off, Length: length}
	}
	return spans
}

// Expected returns the bytes a scatter read of spans over data must produce.
func Expected(data []byte, spans []Span) []byte {
	total := 0
	for _, s := range spans {
		total += s.Length
	}
	out := make([]byte, 0, total)
	for _, s := range spans {
		out = append(out, data[s.Offset:s.End()]...)
	}
	return out
}

// Workload generates batches of equally sized, equally spaced spans that
// walk forward through a file.
type Workload struct {
	// Offset is the start of the next batch.
	Offset uint64
	// Ranges is the number of spans per batch.
	Ranges int
	// Length is the length of every span.
	Length int
	// Gap is the distance between the end of a span and the start of the next.
	Gap int
	// Skip is added after every batch.
	Skip int
}

// Next returns the next batch and advances Offset past it.
func (w *Workload) Next() []Span {
	spans := make([]Span, w.Ranges)
	for i := range spans {
		spans[i] = Span{Offset: w.Offset, Length: w.Length}
		w.Offset += uint64(w.Length) + uint64(w.Gap)
	}
	w.Offset += uint64(w.Skip)
	return spans
}

// Extent returns the number of bytes the next n batches walk through.
func (w Workload) Extent(n int) uint64 {
	return uint64(n) * (uint64(w.Ranges)*uint64(w.Length+w.Gap) + uint64(w.Skip))
}
